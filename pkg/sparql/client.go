// Package sparql is a minimal SPARQL 1.1 Protocol client: SELECT queries with
// JSON results and update requests, both sent as form-encoded POSTs.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
)

const (
	resultsContentType = "application/sparql-results+json"
	formContentType    = "application/x-www-form-urlencoded"
	maxErrorBody       = 512
)

// Term is one bound value in a result row.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Binding is a result row keyed by variable name.
type Binding map[string]Term

// Value returns the lexical value bound to name, or "" when unbound.
func (b Binding) Value(name string) string {
	return b[name].Value
}

type resultSet struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sparql endpoint returned %d: %s", e.Code, e.Body)
}

// Client talks to one SPARQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
}

// New creates a Client for the given query/update endpoint.
func New(endpoint string, timeout time.Duration, l *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      logger.Component(l, "sparql"),
	}
}

// Select runs a SELECT query and returns its result rows.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	body, err := c.post(ctx, "query", query, resultsContentType)
	if err != nil {
		return nil, errors.Wrap(err, "sparql select")
	}

	var rs resultSet
	if err := json.Unmarshal(body, &rs); err != nil {
		return nil, errors.Wrap(err, "decode sparql results")
	}
	c.log.Debug("select", zap.Int("rows", len(rs.Results.Bindings)))
	return rs.Results.Bindings, nil
}

// Update runs an update request (INSERT DATA, DELETE WHERE, ...).
func (c *Client) Update(ctx context.Context, update string) error {
	if _, err := c.post(ctx, "update", update, ""); err != nil {
		return errors.Wrap(err, "sparql update")
	}
	return nil
}

func (c *Client) post(ctx context.Context, param, text, accept string) ([]byte, error) {
	form := url.Values{param: {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", formContentType)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
