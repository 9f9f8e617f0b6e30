package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"
)

type Config struct {
	Addresses []string
	Username  string
	Password  string
}

type Client struct {
	es *elasticsearch.Client
}

type SearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func NewClient(cfg *Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create elasticsearch client")
	}

	res, err := es.Info()
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch info")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}

	return &Client{es: es}, nil
}

// CreateIndex creates index with mapping unless it already exists.
func (c *Client) CreateIndex(ctx context.Context, index, mapping string) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(mapping),
	}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	return checkResponse(res, "create index")
}

func (c *Client) Index(ctx context.Context, index, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	return checkResponse(res, "index document")
}

func (c *Client) Search(ctx context.Context, index string, query map[string]interface{}) (*SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search %s: %s: %s", index, res.Status(), raw)
	}

	var out SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, index, id string) error {
	res, err := esapi.DeleteRequest{Index: index, DocumentID: id}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	if res.StatusCode == 404 {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete document")
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s: %s: %s", op, res.Status(), raw)
	}
	return nil
}
