// Package search keeps an Elasticsearch index of workouts for notes search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "user_id":       {"type": "keyword"},
      "activity_type": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "notes":         {"type": "text"},
      "duration":      {"type": "double"},
      "date":          {"type": "date"},
      "updated_at":    {"type": "date"}
    }
  }
}`

// WorkoutIndex implements application.WorkoutIndexer on Elasticsearch.
type WorkoutIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewWorkoutIndex(es *elasticsearch.Client, index string) *WorkoutIndex {
	return &WorkoutIndex{ES: es, IndexName: index}
}

type workoutDoc struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	ActivityType string  `json:"activity_type"`
	Notes        string  `json:"notes,omitempty"`
	Duration     float64 `json:"duration"`
	Date         string  `json:"date"`
	UpdatedAt    string  `json:"updated_at"`
}

func toDoc(w entity.Workout) workoutDoc {
	d := workoutDoc{
		ID:           w.ID,
		UserID:       w.UserID,
		ActivityType: string(w.ActivityType),
		Duration:     w.Duration,
		Date:         w.Date.Format("2006-01-02"),
		UpdatedAt:    w.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if w.Notes != nil {
		d.Notes = *w.Notes
	}
	return d
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *WorkoutIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Indices.Exists([]string{x.IndexName}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("check index %s: %w", x.IndexName, err)
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = x.ES.Indices.Create(x.IndexName,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", x.IndexName, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (x *WorkoutIndex) Index(ctx context.Context, w entity.Workout) error {
	b, err := json.Marshal(toDoc(w))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: w.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("index workout %s: %w", w.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index workout", res)
	}
	return nil
}

// Delete removes the document; a missing document is not an error.
func (x *WorkoutIndex) Delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: id}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete workout", res)
	}
	return nil
}

// Search returns ids of the user's workouts whose notes or activity type match q.
func (x *WorkoutIndex) Search(ctx context.Context, userID, q string, size int) ([]string, error) {
	b, err := json.Marshal(searchQuery(userID, q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("search workouts: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, responseError("search workouts", res)
	}
	return decodeHitIDs(res.Body)
}

func searchQuery(userID, q string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"notes", "activity_type^2"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
	}
}

func decodeHitIDs(r io.Reader) ([]string, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func responseError(op string, res *esapi.Response) error {
	return fmt.Errorf("%s: elasticsearch responded %s", op, res.Status())
}
