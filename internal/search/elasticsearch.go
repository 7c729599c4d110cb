package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/eugenek0529/reservation-system/internal/models"
)

// Config holds the Elasticsearch connection settings. An empty URL disables search.
type Config struct {
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
}

// CustomerIndex is the customer directory index
type CustomerIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewCustomerIndex connects to Elasticsearch and creates the index if needed
func NewCustomerIndex(ctx context.Context, cfg Config) (*CustomerIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &CustomerIndex{client: es, index: cfg.Index}
	if err := idx.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return idx, nil
}

// DocumentID identifies a directory entry across both identity tables
func DocumentID(c models.CustomerView) string {
	return c.Source + ":" + c.ID
}

func (c *CustomerIndex) ensureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{c.index}}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":          map[string]interface{}{"type": "keyword"},
				"name":        map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"email":       map[string]interface{}{"type": "text", "analyzer": "simple"},
				"phone":       map[string]interface{}{"type": "keyword"},
				"source":      map[string]interface{}{"type": "keyword"},
				"memberSince": map[string]interface{}{"type": "keyword"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createRes, err := esapi.IndicesCreateRequest{Index: c.index, Body: bytes.NewReader(body)}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.index)
	return nil
}

// IndexCustomer upserts one directory entry
func (c *CustomerIndex) IndexCustomer(ctx context.Context, customer models.CustomerView) error {
	body, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: DocumentID(customer),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index customer: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}
	return nil
}

// DeleteCustomer removes an entry; missing documents are not an error
func (c *CustomerIndex) DeleteCustomer(ctx context.Context, documentID string) error {
	res, err := esapi.DeleteRequest{
		Index:      c.index,
		DocumentID: documentID,
		Refresh:    "wait_for",
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

// Search runs a fuzzy match over name, email and phone
func (c *CustomerIndex) Search(ctx context.Context, query string, size int) ([]models.CustomerView, error) {
	if size <= 0 {
		size = 20
	}

	request := map[string]interface{}{
		"query": BuildQuery(query),
		"size":  size,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"name.keyword": map[string]interface{}{"order": "asc"}},
		},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.CustomerView `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	customers := make([]models.CustomerView, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		customers[i] = hit.Source
	}
	return customers, nil
}

// BuildQuery returns the search body query for q
func BuildQuery(q string) map[string]interface{} {
	q = strings.TrimSpace(q)
	if q == "" {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should": []map[string]interface{}{
				{"multi_match": map[string]interface{}{
					"query":     q,
					"fields":    []string{"name^2", "email"},
					"fuzziness": "AUTO",
				}},
				{"prefix": map[string]interface{}{"phone": q}},
			},
			"minimum_should_match": 1,
		},
	}
}

// HealthCheck waits for at least yellow cluster health
func (c *CustomerIndex) HealthCheck(ctx context.Context) error {
	res, err := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}
	return nil
}
