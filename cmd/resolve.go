package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/elizabethzhu1/newsmapper/internal/alias"
	"github.com/elizabethzhu1/newsmapper/internal/api"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newResolveCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "resolve <location>...",
		Short: "Resolve location strings to coordinates",
		Example: `  newsmapper resolve "U.S." Kyiv "Gaza Strip"
  newsmapper resolve --format json Lagos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			res, err := resolver.New(resolver.DefaultTables(), alias.Default(), log)
			if err != nil {
				return fmt.Errorf("build resolver: %w", err)
			}

			results := make([]api.ResolveResponse, len(args))
			for i, location := range args {
				r := res.Resolve(location)
				results[i] = api.ResolveResponse{
					Location:    location,
					MatchedName: r.MatchedName,
					MatchTier:   r.Tier,
					Latitude:    r.Coordinate.Latitude,
					Longitude:   r.Coordinate.Longitude,
				}
			}
			return renderResolutions(cmd.OutOrStdout(), format, results)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	return cmd
}

func renderResolutions(w io.Writer, format string, results []api.ResolveResponse) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Location", "Matched", "Tier", "Latitude", "Longitude"})
		for _, r := range results {
			t.AppendRow(table.Row{
				r.Location,
				r.MatchedName,
				r.MatchTier.String(),
				fmt.Sprintf("%.4f", r.Latitude),
				fmt.Sprintf("%.4f", r.Longitude),
			})
		}
		t.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
