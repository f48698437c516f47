// Package nlp is a client for the upstream service that parses prompts into
// structured intents.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/config"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/models"
)

// Client posts prompts to the parser endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
}

// New creates a Client.
func New(cfg config.NLPConfig, l *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      logger.Component(l, "nlp"),
	}
}

type parseRequest struct {
	Prompt string `json:"prompt"`
}

type parseError struct {
	Error string `json:"error"`
}

// Parse returns the intent for prompt. Every failure, including an answer
// that names no api, is reported as ErrIntentUnavailable.
func (c *Client) Parse(ctx context.Context, prompt string) (models.Intent, error) {
	body, err := json.Marshal(parseRequest{Prompt: prompt})
	if err != nil {
		return models.Intent{}, errors.Wrap(err, "encode parse request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Intent{}, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return models.Intent{}, errors.Wrap(errors.Mark(err, errors.ErrIntentUnavailable), "call parser")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Intent{}, errors.Wrap(errors.Mark(err, errors.ErrIntentUnavailable), "read parser response")
	}
	c.log.Debug("parsed prompt",
		zap.Int(logger.FieldStatus, resp.StatusCode),
		zap.Int64(logger.FieldDurationMS, time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var pe parseError
		if json.Unmarshal(respBody, &pe) == nil && pe.Error != "" {
			return models.Intent{}, errors.Wrapf(errors.ErrIntentUnavailable, "parser returned %d: %s", resp.StatusCode, pe.Error)
		}
		return models.Intent{}, errors.Wrapf(errors.ErrIntentUnavailable, "parser returned %d", resp.StatusCode)
	}

	var intent models.Intent
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return models.Intent{}, errors.Wrap(errors.Mark(err, errors.ErrIntentUnavailable), "decode intent")
	}
	if strings.TrimSpace(intent.API) == "" {
		return models.Intent{}, errors.Wrap(errors.ErrIntentUnavailable, "parser detected no api")
	}
	return intent, nil
}
