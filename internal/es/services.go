package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

const serviceMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "keyword"},
      "price":       {"type": "double"},
      "duration":    {"type": "integer"},
      "featured":    {"type": "boolean"},
      "isActive":    {"type": "boolean"},
      "sortIndex":   {"type": "integer"},
      "createdAt":   {"type": "date"},
      "updatedAt":   {"type": "date"}
    }
  }
}`

// ServiceIndex keeps catalog services searchable.
type ServiceIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewServiceIndex(client *elasticsearch.Client, index string) *ServiceIndex {
	return &ServiceIndex{Client: client, Index: index}
}

func responseErr(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch: %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (s *ServiceIndex) EnsureIndex(ctx context.Context) error {
	res, err := s.Client.Indices.Exists([]string{s.Index}, s.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.Client.Indices.Create(s.Index,
		s.Client.Indices.Create.WithContext(ctx),
		s.Client.Indices.Create.WithBody(strings.NewReader(serviceMapping)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseErr("create index", res)
	}
	return nil
}

func (s *ServiceIndex) IndexService(ctx context.Context, svc *models.Service) error {
	body, err := json.Marshal(svc)
	if err != nil {
		return fmt.Errorf("elasticsearch: marshal: %w", err)
	}

	res, err := s.Client.Index(s.Index, bytes.NewReader(body),
		s.Client.Index.WithContext(ctx),
		s.Client.Index.WithDocumentID(svc.ID),
		s.Client.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseErr("index", res)
	}
	return nil
}

func (s *ServiceIndex) DeleteService(ctx context.Context, id string) error {
	res, err := s.Client.Delete(s.Index, id, s.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseErr("delete", res)
	}
	return nil
}

// SearchServices runs a fuzzy match over name and description, restricted to
// active services.
func (s *ServiceIndex) SearchServices(ctx context.Context, query string, p repo.Page) ([]models.Service, int64, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"isActive": true}},
				},
			},
		},
		"from": p.Offset(),
		"size": p.Limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
		s.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, responseErr("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Service `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("elasticsearch: decode: %w", err)
	}

	items := make([]models.Service, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return items, r.Hits.Total.Value, nil
}
