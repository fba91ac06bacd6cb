package cmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elizabethzhu1/newsmapper/cmd"
	"github.com/elizabethzhu1/newsmapper/internal/api"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := cmd.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))

	missing := filepath.Join(t.TempDir(), "none.yml")
	root.SetArgs(append([]string{"--config", missing}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "newsmapper version "+cmd.Version+"\n", out)
}

func TestResolveCommand_JSON(t *testing.T) {
	out, err := run(t, "", "resolve", "--format", "json", "U.S.", "Zzyzx")
	require.NoError(t, err)

	var results []api.ResolveResponse
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	assert.Equal(t, "United States", results[0].MatchedName)
	assert.Equal(t, domain.MatchExact, results[0].MatchTier)
	assert.Equal(t, domain.MatchContinentFallback, results[1].MatchTier)
}

func TestResolveCommand_Table(t *testing.T) {
	out, err := run(t, "", "resolve", "U.S.")
	require.NoError(t, err)
	assert.Contains(t, out, "United States")
	assert.Contains(t, out, "exact")
}

func TestResolveCommand_RequiresArgs(t *testing.T) {
	_, err := run(t, "", "resolve")
	require.Error(t, err)
}

func TestResolveCommand_UnknownFormat(t *testing.T) {
	_, err := run(t, "", "resolve", "--format", "xml", "Kyiv")
	require.Error(t, err)
}

const itemsJSON = `[
  {"id":"1","sourceName":"The Guardian","location":"Lagos","latitude":6.5244,"longitude":3.3792,"matchTier":"exact"},
  {"id":"2","sourceName":"The New York Times","location":"Lagos","latitude":6.5244,"longitude":3.3792,"matchTier":"exact"}
]`

func TestLayoutCommand_StdinAggregate(t *testing.T) {
	out, err := run(t, itemsJSON, "layout", "--zoom", "1")
	require.NoError(t, err)

	var resp api.LayoutResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Aggregate)
	require.Len(t, resp.Markers, 1)
	assert.Equal(t, 2, resp.Markers[0].Cluster.Count)
	assert.Equal(t, []string{"The Guardian", "The New York Times"}, resp.Markers[0].Cluster.Sources)
}

func TestLayoutCommand_FileDetail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"newsItems":`+itemsJSON+`}`), 0o600))

	out, err := run(t, "", "layout", "--zoom", "3", "--file", path)
	require.NoError(t, err)

	var resp api.LayoutResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Aggregate)
	require.Len(t, resp.Markers, 2)
	assert.Equal(t, domain.MarkerPoint, resp.Markers[0].Kind)
}

func TestLayoutCommand_SourceFilterAndTable(t *testing.T) {
	out, err := run(t, itemsJSON, "layout", "--zoom", "1", "--sources", "The Guardian", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Lagos")
	assert.Contains(t, out, "cluster")
	assert.NotContains(t, out, "New York Times")
}

func TestLayoutCommand_EmptyInput(t *testing.T) {
	out, err := run(t, "", "layout")
	require.NoError(t, err)

	var resp api.LayoutResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Empty(t, resp.Markers)
}

func TestLayoutCommand_BadJSON(t *testing.T) {
	_, err := run(t, "{not json", "layout")
	require.Error(t, err)
}

func TestLayoutCommand_SkipsOutOfRangeCoordinates(t *testing.T) {
	input := `[
  {"id":"1","sourceName":"The Guardian","location":"Lagos","latitude":6.5244,"longitude":3.3792,"matchTier":"exact"},
  {"id":"2","sourceName":"The Guardian","location":"Nowhere","latitude":123,"longitude":3.3792,"matchTier":"exact"},
  {"id":"3","sourceName":"The Guardian","location":"Nowhere","latitude":6.5,"longitude":-200,"matchTier":"exact"}
]`

	root := cmd.NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(input))
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yml"), "layout", "--zoom", "3"})
	require.NoError(t, root.Execute())

	var resp api.LayoutResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	require.Len(t, resp.Markers, 1)
	assert.Equal(t, "1", resp.Markers[0].Point.Item.ID)
	assert.Contains(t, stderr.String(), "skipped 2 item(s)")
}
