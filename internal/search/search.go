package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
)

var ErrSearch = errors.New("search backend error")

// Document is what gets stored in the tours index.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
	PriceMinor  int64  `json:"priceMinor"`
	Published   bool   `json:"published"`
}

func NewDocument(t *models.Tour) Document {
	return Document{
		ID:          t.ID.String(),
		Title:       t.Title,
		Location:    t.Location,
		Description: t.Description,
		Currency:    t.Currency,
		PriceMinor:  t.PriceMinor,
		Published:   t.Published,
	}
}

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Client struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Client{es: es, index: cfg.Index}, nil
}

// Ping checks the cluster answers before the server starts relying on it.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch info %s: %s: %w", res.Status(), body, ErrSearch)
	}
	return nil
}

func (c *Client) Index(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := c.es.Index(c.index, bytes.NewReader(body),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("index tour %s: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index tour %s: %s: %w", doc.ID, res.Status(), ErrSearch)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	res, err := c.es.Delete(c.index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete tour %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete tour %s: %s: %w", id, res.Status(), ErrSearch)
	}
	return nil
}

// Search runs a fuzzy multi_match and returns the total hit count with the
// matching tour ids in score order.
func (c *Client) Search(ctx context.Context, query string, publishedOnly bool, from, size int) (int64, []uuid.UUID, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(Query(query, publishedOnly, from, size)); err != nil {
		return 0, nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search %s: %w", res.Status(), ErrSearch)
	}
	return DecodeHits(res.Body)
}

func Query(query string, publishedOnly bool, from, size int) map[string]any {
	match := map[string]any{
		"multi_match": map[string]any{
			"query":     query,
			"fields":    []string{"title^2", "location", "description"},
			"fuzziness": "AUTO",
		},
	}
	q := match
	if publishedOnly {
		q = map[string]any{
			"bool": map[string]any{
				"must":   match,
				"filter": map[string]any{"term": map[string]any{"published": true}},
			},
		}
	}
	return map[string]any{
		"query": q,
		"from":  from,
		"size":  size,
	}
}

func DecodeHits(r io.Reader) (int64, []uuid.UUID, error) {
	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		id, err := uuid.Parse(strings.TrimSpace(h.ID))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return out.Hits.Total.Value, ids, nil
}
