package storage_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster records requests and answers like a minimal Elasticsearch.
type fakeCluster struct {
	mu          sync.Mutex
	indexExists bool
	created     string
	bulkBody    []byte
	bulkReply   string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/"+storage.DefaultIndex:
		if f.indexExists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/"+storage.DefaultIndex:
		body, _ := io.ReadAll(r.Body)
		f.created = string(body)
		f.indexExists = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case r.Method == http.MethodPost && r.URL.Path == "/_bulk":
		f.bulkBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(f.bulkReply))
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func (f *fakeCluster) snapshot() (string, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, f.bulkBody
}

func (f *fakeCluster) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = ""
}

func newIndexer(t *testing.T, cluster *fakeCluster) *storage.Indexer {
	t.Helper()

	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := es.NewClient(es.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return storage.NewIndexer(client, "", logger.NewNop())
}

func TestIndexer_EnsureIndex(t *testing.T) {
	t.Parallel()

	cluster := &fakeCluster{}
	idx := newIndexer(t, cluster)

	require.NoError(t, idx.EnsureIndex(context.Background()))
	created, _ := cluster.snapshot()
	assert.Contains(t, created, `"geo_point"`)
	assert.Contains(t, created, `"canonical_location"`)

	cluster.reset()
	require.NoError(t, idx.EnsureIndex(context.Background()))
	created, _ = cluster.snapshot()
	assert.Empty(t, created, "existing index is left alone")
}

func TestIndexer_IndexItems(t *testing.T) {
	t.Parallel()

	cluster := &fakeCluster{bulkReply: `{"errors":false,"items":[{"index":{"_id":"a","status":201}}]}`}
	idx := newIndexer(t, cluster)

	err := idx.IndexItems(context.Background(), []domain.ResolvedItem{{
		ID:                "a",
		Title:             "Story",
		SourceName:        "The Guardian",
		CanonicalLocation: "France",
		Latitude:          46.2276,
		Longitude:         2.2137,
		MatchTier:         domain.MatchExact,
	}})
	require.NoError(t, err)

	_, body := cluster.snapshot()
	scanner := bufio.NewScanner(bytes.NewReader(body))
	var lines []map[string]any
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)

	meta := lines[0]["index"].(map[string]any)
	assert.Equal(t, "a", meta["_id"])
	assert.Equal(t, storage.DefaultIndex, meta["_index"])

	doc := lines[1]
	assert.Equal(t, "France", doc["canonical_location"])
	assert.Equal(t, "exact", doc["match_tier"])
	loc := doc["location"].(map[string]any)
	assert.InDelta(t, 46.2276, loc["lat"], 1e-9)
	assert.InDelta(t, 2.2137, loc["lon"], 1e-9)
}

func TestIndexer_IndexItems_ReportsItemFailures(t *testing.T) {
	t.Parallel()

	cluster := &fakeCluster{bulkReply: `{"errors":true,"items":[{"index":{"_id":"a","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad geo"}}}]}`}
	idx := newIndexer(t, cluster)

	err := idx.IndexItems(context.Background(), []domain.ResolvedItem{{ID: "a", CanonicalLocation: "France"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1")
}

func TestIndexer_IndexItems_Empty(t *testing.T) {
	t.Parallel()

	cluster := &fakeCluster{}
	require.NoError(t, newIndexer(t, cluster).IndexItems(context.Background(), nil))
	_, body := cluster.snapshot()
	assert.Nil(t, body)
}
