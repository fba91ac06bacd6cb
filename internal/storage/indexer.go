// Package storage indexes resolved headlines in Elasticsearch for geo queries.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

// DefaultIndex is the index resolved headlines are written to.
const DefaultIndex = "newsmapper_headlines"

// indexMapping maps location as a geo_point so items can be queried by
// distance and bounding box.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":                 {"type": "keyword"},
      "title":              {"type": "text"},
      "abstract":           {"type": "text"},
      "url":                {"type": "keyword", "index": false},
      "published_date":     {"type": "date", "ignore_malformed": true},
      "source_name":        {"type": "keyword"},
      "canonical_location": {"type": "keyword"},
      "matched_name":       {"type": "keyword"},
      "match_tier":         {"type": "keyword"},
      "is_country_level":   {"type": "boolean"},
      "location":           {"type": "geo_point"}
    }
  }
}`

// Document is the indexed form of a ResolvedItem.
type Document struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Abstract          string   `json:"abstract"`
	URL               string   `json:"url"`
	PublishedDate     string   `json:"published_date,omitempty"`
	SourceName        string   `json:"source_name"`
	CanonicalLocation string   `json:"canonical_location"`
	MatchedName       string   `json:"matched_name"`
	MatchTier         string   `json:"match_tier"`
	IsCountryLevel    bool     `json:"is_country_level"`
	Location          GeoPoint `json:"location"`
}

// GeoPoint is an Elasticsearch geo_point in object form.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewDocument converts an item to its indexed form.
func NewDocument(item domain.ResolvedItem) Document {
	return Document{
		ID:                item.ID,
		Title:             item.Title,
		Abstract:          item.Abstract,
		URL:               item.URL,
		PublishedDate:     item.PublishedDate,
		SourceName:        item.SourceName,
		CanonicalLocation: item.CanonicalLocation,
		MatchedName:       item.MatchedName,
		MatchTier:         item.MatchTier.String(),
		IsCountryLevel:    item.IsCountryLevel,
		Location:          GeoPoint{Lat: item.Latitude, Lon: item.Longitude},
	}
}

// Indexer writes resolved items to one Elasticsearch index.
type Indexer struct {
	client *es.Client
	index  string
	logger logger.Logger
}

// NewIndexer creates an Indexer. An empty index selects DefaultIndex.
func NewIndexer(client *es.Client, index string, log logger.Logger) *Indexer {
	if index == "" {
		index = DefaultIndex
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Indexer{client: client, index: index, logger: log}
}

// EnsureIndex creates the index with its mapping if it does not exist.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	_ = res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("error checking index %s: %s", i.index, res.Status())
	}

	res, err = i.client.Indices.Create(
		i.index,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error creating index %s: %s", i.index, string(body))
	}

	i.logger.Info("Created index", logger.String("index", i.index))
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// IndexItems bulk-indexes items by ID, replacing earlier versions.
func (i *Indexer) IndexItems(ctx context.Context, items []domain.ResolvedItem) error {
	if len(items) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, item := range items {
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.index,
				"_id":    item.ID,
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(NewDocument(item)); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
	}

	res, err := i.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		i.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	var br bulkResponse
	if err = json.NewDecoder(res.Body).Decode(&br); err != nil {
		return fmt.Errorf("error decoding bulk response: %w", err)
	}

	failed := 0
	if br.Errors {
		for _, entry := range br.Items {
			for _, r := range entry {
				if r.Error != nil {
					failed++
					i.logger.Warn("Document not indexed",
						logger.String("id", r.ID),
						logger.Int("status", r.Status),
						logger.String("reason", r.Error.Reason),
					)
				}
			}
		}
	}

	i.logger.Info("Indexed headlines",
		logger.String("index", i.index),
		logger.Int("items", len(items)),
		logger.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("bulk indexing: %d of %d documents failed", failed, len(items))
	}
	return nil
}

// Ping checks cluster connectivity.
func (i *Indexer) Ping(ctx context.Context) error {
	res, err := i.client.Ping(i.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("ping returned %s", res.Status())
	}
	return nil
}
