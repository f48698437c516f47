// Package gateway sends compiled queries to the external GraphQL APIs.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/config"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/router"
)

const maxErrorBody = 1024

// StatusError is returned when an API answers with a non-2xx status.
type StatusError struct {
	API        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.API, e.StatusCode, e.Body)
}

// Gateway posts queries to the API a router target points at.
type Gateway struct {
	router    *router.Router
	http      *http.Client
	userAgent string
	log       *zap.Logger
}

// New creates a Gateway.
func New(r *router.Router, cfg config.HTTPConfig, l *zap.Logger) *Gateway {
	return &Gateway{
		router:    r,
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		log:       logger.Component(l, "gateway"),
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

// Invoke runs query against api and returns the raw response body.
//
// An API with bearer auth and no token fails with ErrMissingCredentials
// without sending anything. Transport failures, non-2xx answers and
// responses carrying GraphQL errors fail with ErrExternalCall.
func (g *Gateway) Invoke(ctx context.Context, query, api string) (string, error) {
	target, err := g.router.Resolve(api)
	if err != nil {
		return "", err
	}

	headers := map[string]string{}
	switch target.Auth {
	case models.AuthBearer:
		if target.Token == "" {
			return "", errors.WithHintf(
				errors.Wrapf(errors.ErrMissingCredentials, "api %s requires a bearer token", target.Name),
				"set the token of %s in the apis section of the config", target.Name)
		}
		headers["Authorization"] = "Bearer " + target.Token
	case models.AuthNone, "":
	default:
		return "", errors.Wrapf(errors.ErrInvalidConfig, "api %s has unknown auth policy %q", target.Name, target.Auth)
	}
	if g.userAgent != "" {
		headers["User-Agent"] = g.userAgent
	}

	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return "", errors.Wrap(err, "encode request")
	}

	log := g.log.With(zap.String(logger.FieldAPI, target.Name), zap.String(logger.FieldEndpoint, target.URL))
	start := time.Now()
	res, err := g.do(ctx, target.URL, headers, body)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return "", errors.Wrapf(errors.Mark(err, errors.ErrExternalCall), "call %s", target.Name)
	}
	log.Debug("response",
		zap.Int(logger.FieldStatus, res.statusCode),
		zap.Int64(logger.FieldDurationMS, time.Since(start).Milliseconds()))

	if res.statusCode < 200 || res.statusCode > 299 {
		b := res.body
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		return "", errors.Mark(&StatusError{API: target.Name, StatusCode: res.statusCode, Body: string(b)}, errors.ErrExternalCall)
	}

	var gr graphQLResponse
	if err := json.Unmarshal(res.body, &gr); err != nil {
		return "", errors.Wrapf(errors.Mark(err, errors.ErrExternalCall), "decode response of %s", target.Name)
	}
	if len(gr.Errors) > 0 {
		return "", errors.Wrapf(errors.Mark(gr.Errors, errors.ErrExternalCall), "%s answered with %d graphql errors", target.Name, len(gr.Errors))
	}
	return string(res.body), nil
}

type upstreamResult struct {
	statusCode int
	body       []byte
}

func (g *Gateway) do(ctx context.Context, url string, headers map[string]string, body []byte) (*upstreamResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	return &upstreamResult{statusCode: resp.StatusCode, body: respBody}, nil
}
