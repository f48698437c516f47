package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/gait-ai/gait/pkg/cache"
	"github.com/gait-ai/gait/pkg/cache/sqlite"
	"github.com/gait-ai/gait/pkg/cache/triplestore"
	"github.com/gait-ai/gait/pkg/config"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/router"
	"github.com/gait-ai/gait/pkg/sparql"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *sparql.Client
	router *router.Router
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Load(path)
}

func newApp(configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	l, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &app{
		cfg:    cfg,
		log:    l,
		store:  sparql.New(cfg.Store.Endpoint, cfg.Store.Timeout, l),
		router: router.New(cfg),
	}, nil
}

// openCache returns the configured cache backend and a closer for it.
// When caching is disabled it returns cache.Disabled.
func (a *app) openCache() (cache.Cache, io.Closer, error) {
	if !a.cfg.Cache.Enabled {
		return cache.Disabled{}, nopCloser{}, nil
	}
	switch a.cfg.Cache.Backend {
	case "sqlite":
		c, err := sqlite.New(a.cfg.Cache.DBPath, a.cfg.Cache.TTL, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("init cache: %w", err)
		}
		return c, c, nil
	default:
		return triplestore.New(a.store, a.cfg.Cache.Graph, a.cfg.Cache.TTL, a.log), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (a *app) close() {
	_ = a.log.Sync()
}
