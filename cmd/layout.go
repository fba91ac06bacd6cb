package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/elizabethzhu1/newsmapper/internal/api"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/layout"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newLayoutCommand() *cobra.Command {
	var (
		zoom    float64
		file    string
		format  string
		sources []string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out resolved items as map markers",
		Long: `Reads resolved items as JSON, either a bare array or a {"newsItems": [...]}
document as served by /api/v1/headlines, and prints the markers for a zoom level.`,
		Example: `  curl -s localhost:8080/api/v1/headlines | newsmapper layout --zoom 3
  newsmapper layout --zoom 1 --file items.json --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open items: %w", err)
				}
				defer f.Close()
				in = f
			}

			items, skipped, err := readItems(in)
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d item(s) with out-of-range coordinates\n", skipped)
			}

			z := layout.ClampZoom(zoom)
			opts := layout.OptionsForZoom(z)
			engine := layout.New(resolver.Default(nil), data.CountryNames)
			markers := engine.Layout(layout.FilterSources(items, sources), opts)

			return renderLayout(cmd.OutOrStdout(), format, api.LayoutResponse{
				Aggregate: opts.Aggregate,
				Zoom:      z,
				Markers:   markers,
			})
		},
	}

	cmd.Flags().Float64Var(&zoom, "zoom", layout.MinZoom, "map zoom level")
	cmd.Flags().StringVar(&file, "file", "", "items JSON file (default stdin)")
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or table")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "source display names to keep (default all)")
	return cmd
}

// readItems accepts a JSON array of items or a headlines response. Items
// whose coordinates are out of range are dropped and counted.
func readItems(r io.Reader) ([]domain.ResolvedItem, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read items: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, 0, nil
	}

	var items []domain.ResolvedItem
	if raw[0] == '[' {
		if err = json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("decode items: %w", err)
		}
	} else {
		var doc api.HeadlinesResponse
		if err = json.Unmarshal(raw, &doc); err != nil {
			return nil, 0, fmt.Errorf("decode headlines: %w", err)
		}
		items = doc.NewsItems
	}

	valid := items[:0]
	for _, it := range items {
		if it.Coordinate().Valid() {
			valid = append(valid, it)
		}
	}
	return valid, len(items) - len(valid), nil
}

func renderLayout(w io.Writer, format string, resp api.LayoutResponse) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case formatTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(fmt.Sprintf("zoom %.1f, aggregate %t", resp.Zoom, resp.Aggregate))
		t.AppendHeader(table.Row{"Kind", "Location", "Count", "Latitude", "Longitude", "Sources"})
		for _, m := range resp.Markers {
			t.AppendRow(markerRow(m))
		}
		t.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func markerRow(m domain.MarkerGroup) table.Row {
	if m.Kind == domain.MarkerCluster && m.Cluster != nil {
		return table.Row{
			m.Kind,
			m.Cluster.Location,
			m.Cluster.Count,
			fmt.Sprintf("%.4f", m.Cluster.Latitude),
			fmt.Sprintf("%.4f", m.Cluster.Longitude),
			fmt.Sprint(m.Cluster.Sources),
		}
	}
	p := m.Point
	return table.Row{
		m.Kind,
		p.Item.CanonicalLocation,
		1,
		fmt.Sprintf("%.4f", p.Item.Latitude+p.OffsetLat),
		fmt.Sprintf("%.4f", p.Item.Longitude+p.OffsetLon),
		p.Item.SourceName,
	}
}
