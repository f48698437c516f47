// Package triplestore is the Cache backend that keeps entries in a named
// graph of the SPARQL store, next to the mapping graphs.
//
// Each entry is one subject, its prompt key:
//
//	<urn:gait:prompt:...> a cache:CachedEntry ;
//	    cache:originalPrompt "..." ;
//	    cache:hasGraphQLResult "..." ;
//	    cache:createdAt "..."^^xsd:dateTime .
package triplestore

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/cache"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/sparql"
	"github.com/gait-ai/gait/pkg/vocabulary"
)

// Store is the subset of the SPARQL client the cache uses.
type Store interface {
	Select(ctx context.Context, query string) ([]sparql.Binding, error)
	Update(ctx context.Context, update string) error
}

// Cache is a prompt cache stored in one named graph.
type Cache struct {
	store  Store
	graph  string
	ttl    time.Duration
	now    cache.Clock
	log    *zap.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

var _ cache.Cache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock used for timestamps and expiry.
func WithClock(now cache.Clock) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache writing to graph through store.
func New(store Store, graph string, ttl time.Duration, l *zap.Logger, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		graph: sparql.IRI(graph),
		ttl:   ttl,
		now:   cache.SystemClock,
		log:   logger.Component(l, "cache.triplestore"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for prompt. An expired entry is deleted and reported
// as a miss; store failures are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, prompt string) (models.CacheEntry, bool) {
	key := cache.KeyFor(prompt)
	log := c.log.With(zap.String(logger.FieldPromptKey, key))

	q := fmt.Sprintf(`%sSELECT ?prompt ?result ?createdAt WHERE {
  GRAPH %s {
    %s cache:originalPrompt ?prompt ;
       cache:hasGraphQLResult ?result ;
       cache:createdAt ?createdAt .
  }
} LIMIT 1`, vocabulary.Prefixes, c.graph, sparql.IRI(key))

	rows, err := c.store.Select(ctx, q)
	if err != nil {
		log.Warn("cache read failed, treating as miss",
			zap.Error(errors.Mark(err, errors.ErrCacheUnavailable)))
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}
	if len(rows) == 0 {
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}

	createdAt, err := sparql.ParseDateTime(rows[0].Value("createdAt"))
	if err != nil {
		log.Warn("unreadable cache timestamp, treating as miss", zap.Error(err))
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}
	e := models.CacheEntry{
		PromptKey: key,
		Prompt:    rows[0].Value("prompt"),
		Result:    rows[0].Value("result"),
		CreatedAt: createdAt,
	}

	if e.Expired(c.now(), c.ttl) {
		log.Debug("entry expired", zap.Duration("age", e.Age(c.now())))
		if err := c.Delete(ctx, prompt); err != nil {
			log.Warn("delete expired entry", zap.Error(err))
		}
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}

	c.hits.Add(1)
	return e, true
}

// Put replaces the entry for prompt in a single update request.
func (c *Cache) Put(ctx context.Context, prompt, payload string) error {
	subject := sparql.IRI(cache.KeyFor(prompt))
	u := fmt.Sprintf(`%sDELETE WHERE { GRAPH %s { %s ?p ?o } } ;
%sINSERT DATA {
  GRAPH %s {
    %s a cache:CachedEntry ;
       cache:originalPrompt %s ;
       cache:hasGraphQLResult %s ;
       cache:createdAt %s .
  }
}`,
		vocabulary.Prefixes, c.graph, subject,
		vocabulary.Prefixes, c.graph, subject,
		sparql.Literal(cache.Normalize(prompt)),
		sparql.Literal(payload),
		sparql.DateTime(c.now()))

	if err := c.store.Update(ctx, u); err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrCacheUnavailable), "cache put")
	}
	return nil
}

// Delete removes every triple of the entry for prompt.
func (c *Cache) Delete(ctx context.Context, prompt string) error {
	u := fmt.Sprintf("%sDELETE WHERE { GRAPH %s { %s ?p ?o } }",
		vocabulary.Prefixes, c.graph, sparql.IRI(cache.KeyFor(prompt)))
	if err := c.store.Update(ctx, u); err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrCacheUnavailable), "cache delete")
	}
	return nil
}

// Stats counts the entries in the cache graph.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	q := fmt.Sprintf("%sSELECT (COUNT(DISTINCT ?s) AS ?n) WHERE { GRAPH %s { ?s a cache:CachedEntry } }",
		vocabulary.Prefixes, c.graph)
	rows, err := c.store.Select(ctx, q)
	if err != nil {
		return models.CacheStats{}, errors.Wrap(errors.Mark(err, errors.ErrCacheUnavailable), "cache stats")
	}

	var count int64
	if len(rows) > 0 {
		count, err = strconv.ParseInt(rows[0].Value("n"), 10, 64)
		if err != nil {
			return models.CacheStats{}, errors.Wrap(err, "parse entry count")
		}
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only entries at least
// ttl old are removed; otherwise the whole graph is dropped.
func (c *Cache) Clear(ctx context.Context, expiredOnly bool) error {
	var u string
	if expiredOnly {
		cutoff := c.now().Add(-c.ttl)
		u = fmt.Sprintf(`%sDELETE { GRAPH %s { ?s ?p ?o } }
WHERE {
  GRAPH %s {
    ?s cache:createdAt ?c ; ?p ?o .
    FILTER(?c <= %s)
  }
}`, vocabulary.Prefixes, c.graph, c.graph, sparql.DateTime(cutoff))
	} else {
		u = fmt.Sprintf("CLEAR SILENT GRAPH %s", c.graph)
	}
	if err := c.store.Update(ctx, u); err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrCacheUnavailable), "cache clear")
	}
	return nil
}
