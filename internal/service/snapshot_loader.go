package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/studio-console-api/internal/analytics"
	"github.com/noah-isme/studio-console-api/internal/models"
	"github.com/noah-isme/studio-console-api/pkg/config"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
)

type documentReader interface {
	List(ctx context.Context, collection string) ([]models.Document, error)
}

// SnapshotLoaderConfig tunes the loader.
type SnapshotLoaderConfig struct {
	Collections config.CollectionsConfig
	CacheTTL    time.Duration
	Location    *time.Location
}

// SnapshotLoaderParams groups constructor dependencies.
type SnapshotLoaderParams struct {
	Reader  documentReader
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  SnapshotLoaderConfig
}

// SnapshotLoader fetches the dashboard collections jointly and decodes them. Only the raw
// documents are cached; every view is recomputed from them.
type SnapshotLoader struct {
	reader  documentReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SnapshotLoaderConfig
}

// NewSnapshotLoader constructs a SnapshotLoader.
func NewSnapshotLoader(params SnapshotLoaderParams) *SnapshotLoader {
	cfg := params.Config
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{
		reader:  params.Reader,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Location is the studio time zone records are decoded in.
func (l *SnapshotLoader) Location() *time.Location {
	return l.cfg.Location
}

// Load returns a decoded snapshot and whether every collection came from cache. Any fetch
// failure yields ErrDataUnavailable and no partial snapshot.
func (l *SnapshotLoader) Load(ctx context.Context) (analytics.Snapshot, bool, error) {
	names := l.cfg.Collections
	var lessons, transactions, users, equipment []models.Document
	hits := make([]bool, 4)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(i int, collection string, dest *[]models.Document) {
		g.Go(func() error {
			docs, hit, err := l.fetch(gctx, collection)
			if err != nil {
				return err
			}
			*dest = docs
			hits[i] = hit
			return nil
		})
	}
	fetch(0, names.Lessons, &lessons)
	fetch(1, names.Transactions, &transactions)
	fetch(2, names.Users, &users)
	fetch(3, names.Equipment, &equipment)

	if err := g.Wait(); err != nil {
		l.logger.Error("snapshot fetch failed", zap.Error(err))
		return analytics.Snapshot{}, false, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, appErrors.ErrDataUnavailable.Message)
	}

	loc := l.cfg.Location
	snapshot := analytics.Snapshot{
		Lessons:      analytics.DecodeLessons(lessons, loc),
		Transactions: analytics.DecodeTransactions(transactions, loc),
		Users:        analytics.DecodeUsers(users, loc),
		Equipment:    analytics.DecodeEquipmentList(equipment),
	}
	return snapshot, hits[0] && hits[1] && hits[2] && hits[3], nil
}

// Invalidate drops the cached documents of a collection after a write-back.
func (l *SnapshotLoader) Invalidate(ctx context.Context, collection string) {
	l.cache.Invalidate(ctx, cacheKey(collection))
}

func (l *SnapshotLoader) fetch(ctx context.Context, collection string) ([]models.Document, bool, error) {
	key := cacheKey(collection)
	var cached []models.Document
	if l.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	start := time.Now()
	docs, err := l.reader.List(ctx, collection)
	l.metrics.ObserveFetch(collection, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	l.cache.Set(ctx, key, docs, l.cfg.CacheTTL)
	return docs, false, nil
}

func cacheKey(collection string) string {
	return "docs:" + collection
}
