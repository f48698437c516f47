// Package translator runs the prompt-to-GraphQL pipeline: cache lookup,
// intent parsing, mapping resolution, query compilation, the external call
// and the cache write.
package translator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/cache"
	"github.com/gait-ai/gait/pkg/compiler"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/metrics"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/router"
)

// Parser turns a prompt into an intent.
type Parser interface {
	Parse(ctx context.Context, prompt string) (models.Intent, error)
}

// Resolver resolves an intent against the mapping store.
type Resolver interface {
	Resolve(ctx context.Context, intent models.Intent) (models.Mapping, error)
}

// Invoker executes a compiled query against an API.
type Invoker interface {
	Invoke(ctx context.Context, query, api string) (string, error)
}

// Registry looks up configured APIs.
type Registry interface {
	Resolve(api string) (router.Target, error)
}

// Deps are the collaborators of a Translator. Cache, Metrics and Logger are
// optional.
type Deps struct {
	Cache    cache.Cache
	Parser   Parser
	Resolver Resolver
	Gateway  Invoker
	Registry Registry
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Request is one translation. When Intent is set the parser is skipped; the
// prompt is still the cache key.
type Request struct {
	Prompt string
	Intent *models.Intent
}

// Result is the outcome of a successful translation. Query and Intent are
// empty on a cache hit.
type Result struct {
	RequestID string
	Payload   string
	Cached    bool
	Query     string
	Intent    models.Intent
}

// Translator is the single entry point of the pipeline.
type Translator struct {
	cache    cache.Cache
	parser   Parser
	resolver Resolver
	gateway  Invoker
	registry Registry
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New creates a Translator.
func New(d Deps) *Translator {
	c := d.Cache
	if c == nil {
		c = cache.Disabled{}
	}
	return &Translator{
		cache:    c,
		parser:   d.Parser,
		resolver: d.Resolver,
		gateway:  d.Gateway,
		registry: d.Registry,
		metrics:  d.Metrics,
		log:      logger.Component(d.Logger, "translator"),
	}
}

// Translate answers req from the cache or by running the pipeline. Errors
// are *errors.StageError values naming the failing stage. Nothing is cached
// unless the external call succeeded.
func (t *Translator) Translate(ctx context.Context, req Request) (Result, error) {
	res := Result{RequestID: uuid.NewString()}
	log := t.log.With(zap.String(logger.FieldRequestID, res.RequestID))
	prompt := cache.Normalize(req.Prompt)

	if prompt == "" && req.Intent == nil {
		return res, errors.AtStage(errors.Wrap(errors.ErrIntentUnavailable, "empty prompt"), errors.StageParse, "")
	}

	api := ""
	if req.Intent != nil {
		api = req.Intent.API
	}

	if prompt != "" {
		if e, ok := t.cache.Get(ctx, prompt); ok {
			t.metrics.CacheHit()
			t.metrics.Request(api, metrics.OutcomeHit)
			log.Debug("cache hit", zap.String(logger.FieldPromptKey, e.PromptKey))
			res.Payload = e.Result
			res.Cached = true
			return res, nil
		}
		t.metrics.CacheMiss()
	}

	payload, err := t.run(ctx, log, prompt, req.Intent, &res)
	if err != nil {
		t.metrics.Request(res.Intent.API, metrics.OutcomeError)
		log.Info("translation failed",
			zap.String(logger.FieldStage, string(errors.StageOf(err))),
			zap.Error(err))
		return res, err
	}
	res.Payload = payload
	t.metrics.Request(res.Intent.API, metrics.OutcomeSuccess)

	if prompt != "" {
		if err := t.cache.Put(ctx, prompt, payload); err != nil {
			log.Warn("cache write failed", zap.String(logger.FieldPromptKey, cache.KeyFor(prompt)), zap.Error(err))
		}
	}
	return res, nil
}

func (t *Translator) run(ctx context.Context, log *zap.Logger, prompt string, supplied *models.Intent, res *Result) (string, error) {
	var intent models.Intent
	if supplied != nil {
		intent = *supplied
	} else {
		start := time.Now()
		parsed, err := t.parser.Parse(ctx, prompt)
		t.metrics.ObserveStage(errors.StageParse, time.Since(start))
		if err != nil {
			return "", errors.AtStage(err, errors.StageParse, "")
		}
		intent = parsed
	}
	res.Intent = intent

	target, err := t.registry.Resolve(intent.API)
	if err != nil {
		return "", errors.AtStage(err, errors.StageResolve, intent.API)
	}
	log = log.With(zap.String(logger.FieldAPI, target.Name))

	start := time.Now()
	mapping, err := t.resolver.Resolve(ctx, intent)
	t.metrics.ObserveStage(errors.StageResolve, time.Since(start))
	if err != nil {
		return "", errors.AtStage(err, errors.StageResolve, target.Name)
	}

	start = time.Now()
	query, err := compiler.Compile(target.Schema(), intent, mapping)
	t.metrics.ObserveStage(errors.StageCompile, time.Since(start))
	if err != nil {
		return "", errors.AtStage(err, errors.StageCompile, target.Name)
	}
	res.Query = query
	log.Debug("compiled query", zap.String(logger.FieldQuery, query))

	start = time.Now()
	payload, err := t.gateway.Invoke(ctx, query, target.Name)
	t.metrics.ObserveStage(errors.StageInvoke, time.Since(start))
	if err != nil {
		return "", errors.AtStage(err, errors.StageInvoke, target.Name)
	}
	return payload, nil
}
