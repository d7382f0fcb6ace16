// Package gateway turns the pages of a Notion database into referral
// records.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kud/referrals/internal/cache"
	"github.com/kud/referrals/internal/models"
)

const DefaultConcurrency = 8

type Config struct {
	APIKey     string
	DatabaseID string
	// Concurrency bounds the parallel page retrievals. Zero means
	// DefaultConcurrency.
	Concurrency int
	Schema      Schema
}

type Gateway struct {
	cfg    Config
	source PageSource
	cache  *cache.Cache
	logger *slog.Logger
}

type Option func(*Gateway)

// WithRevalidate keeps a successful result for ttl before fetching again.
func WithRevalidate(ttl time.Duration) Option {
	return func(g *Gateway) {
		if ttl > 0 {
			g.cache = cache.NewCache(ttl)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

func New(cfg Config, source PageSource, opts ...Option) *Gateway {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	cfg.Schema = cfg.Schema.withDefaults()

	g := &Gateway{
		cfg:    cfg,
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) validate() error {
	var missing []string
	if g.cfg.APIKey == "" {
		missing = append(missing, "NOTION_API_KEY")
	}
	if g.cfg.DatabaseID == "" {
		missing = append(missing, "NOTION_DATABASE_ID")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// FetchReferrals returns every record in the configured database, in
// query order. Any upstream failure fails the whole call.
func (g *Gateway) FetchReferrals(ctx context.Context) ([]models.Record, error) {
	if err := g.validate(); err != nil {
		g.logger.Error("Missing Notion API key or database ID", "error", err)
		return nil, err
	}

	if g.cache != nil {
		if records, ok := g.cache.GetRecords(); ok {
			return records, nil
		}
	}

	ids, err := g.source.QueryPageIDs(ctx, g.cfg.DatabaseID)
	if err != nil {
		g.logger.Error("Failed to query database", "database_id", g.cfg.DatabaseID, "error", err)
		return nil, &FetchError{Op: "query database", Err: err}
	}

	records := make([]models.Record, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			props, err := g.source.PageProperties(egCtx, id)
			if err != nil {
				g.logger.Error("Failed to retrieve page", "page_id", id, "error", err)
				return &FetchError{Op: "retrieve page", PageID: id, Err: err}
			}
			records[i] = decodeRecord(g.cfg.Schema, props)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.SetRecords(records)
	}
	return records, nil
}
