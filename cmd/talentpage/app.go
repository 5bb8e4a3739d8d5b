package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/brand"
	"github.com/jonathan/talentpage/internal/cache"
	"github.com/jonathan/talentpage/internal/config"
	"github.com/jonathan/talentpage/internal/enrich"
	"github.com/jonathan/talentpage/internal/llm"
	"github.com/jonathan/talentpage/internal/market"
	"github.com/jonathan/talentpage/internal/scraper"
	"github.com/jonathan/talentpage/internal/store"
)

// app bundles the wired components shared by the subcommands.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      store.Store
	scraper    *scraper.Scraper
	brand      *brand.Builder
	market     *market.Researcher
	enrich     *enrich.Manager
	llm        llm.Client
	brandCache cache.Store
	mktCache   cache.Store
}

// newApp wires every component from configuration. Optional backends fall
// back to in-process implementations: no DATABASE_URL means the memory
// store, no REDIS_URL means the memory cache, no GEMINI_API_KEY means the
// LLM-dependent steps soft-skip.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.store = pg
	} else {
		logger.Info("no DATABASE_URL set, using in-memory store")
		a.store = store.NewMemory()
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		a.brandCache = cache.NewRedis(client, "brand", cache.BrandTTL, logger)
		a.mktCache = cache.NewRedis(client, "market", cache.MarketTTL, logger)
	} else {
		a.brandCache = cache.NewMemory(cache.BrandTTL)
		a.mktCache = cache.NewMemory(cache.MarketTTL)
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		a.llm = client
	} else {
		logger.Warn("no GEMINI_API_KEY set, voice classification and market estimation disabled")
	}

	a.scraper = scraper.New(a.brandCache, logger)
	if cfg.UseBrowser {
		a.scraper.EnableBrowserFallback()
	}
	a.brand = brand.NewBuilder(a.llm, logger)
	a.market = market.NewResearcher(a.mktCache, a.llm, logger)
	a.enrich = enrich.NewManager(a.store, a.scraper, a.brand, a.market, logger)

	return a, nil
}

// close releases resources in reverse wiring order.
func (a *app) close() {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if c, ok := a.brandCache.(*cache.Memory); ok {
		c.Close()
	}
	if c, ok := a.mktCache.(*cache.Memory); ok {
		c.Close()
	}
	a.store.Close()
	_ = a.logger.Sync()
}
