package catalog

import (
	"context"
	"time"

	"career-matching-workers/internal/common/aws"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Publisher announces catalog version changes.
type Publisher interface {
	PublishCatalogVersion(ctx context.Context, event aws.CatalogVersionEvent) error
}

// RefreshResult describes one refresh.
type RefreshResult struct {
	Version         string           `json:"catalogVersion"`
	PreviousVersion string           `json:"previousVersion,omitempty"`
	Programs        int              `json:"programCount"`
	Changed         bool             `json:"changed"`
	Source          string           `json:"source"`
	Warnings        []errors.Warning `json:"warnings,omitempty"`
}

// Refresher loads snapshots from a Source into a Store.
type Refresher struct {
	source        Source
	store         *Store
	cache         *RedisCache // optional
	publisher     Publisher   // optional
	obs           *observability.Observability
	admissionYear int
	logger        logger.Logger
}

type RefresherOption func(*Refresher)

func WithCache(c *RedisCache) RefresherOption {
	return func(r *Refresher) { r.cache = c }
}

func WithPublisher(p Publisher) RefresherOption {
	return func(r *Refresher) { r.publisher = p }
}

func WithObservability(o *observability.Observability) RefresherOption {
	return func(r *Refresher) { r.obs = o }
}

func NewRefresher(source Source, store *Store, admissionYear int, log logger.Logger, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		source:        source,
		store:         store,
		admissionYear: admissionYear,
		logger:        log.WithFields(map[string]interface{}{"component": "catalog-refresher", "source": source.Name()}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Warm installs the cached snapshot when the store is still empty. A cache
// miss or error is not fatal.
func (r *Refresher) Warm(ctx context.Context) bool {
	if r.cache == nil {
		return false
	}
	if _, err := r.store.Current(); err == nil {
		return false
	}

	snap, err := r.cache.Load(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("catalog cache read failed", nil)
		return false
	}
	if snap == nil {
		return false
	}

	r.store.Swap(snap)
	metrics.CatalogPrograms.Set(float64(snap.Len()))
	r.logger.Info("catalog warmed from cache", map[string]interface{}{
		"catalogVersion": snap.Version(),
		"programs":       snap.Len(),
	})
	return true
}

// Refresh fetches the source and swaps in a new snapshot when its version
// differs from the current one. On failure the current snapshot stays live.
func (r *Refresher) Refresh(ctx context.Context) (RefreshResult, error) {
	ctx, span := r.obs.StartSpan(ctx, "catalog.refresh", attribute.String("catalog.source", r.source.Name()))
	defer span.End()

	res := RefreshResult{Source: r.source.Name()}
	start := time.Now()

	programs, err := r.source.Fetch(ctx)
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues(r.source.Name(), "failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		r.logger.WithError(err).Error("catalog fetch failed", nil)
		return res, err
	}

	next, err := NewSnapshot("", r.admissionYear, programs)
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues(r.source.Name(), "invalid").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid catalog")
		return res, errors.NewCatalogLoadFailedError(r.source.Name(), err)
	}

	res.Version = next.Version()
	res.Programs = next.Len()

	if prev, err := r.store.Current(); err == nil {
		res.PreviousVersion = prev.Version()
		if prev.Version() == next.Version() {
			metrics.CatalogRefreshes.WithLabelValues(r.source.Name(), "unchanged").Inc()
			r.logger.Debug("catalog unchanged", map[string]interface{}{"catalogVersion": next.Version()})
			return res, nil
		}
	}

	r.store.Swap(next)
	res.Changed = true
	metrics.CatalogPrograms.Set(float64(next.Len()))
	metrics.CatalogRefreshes.WithLabelValues(r.source.Name(), "swapped").Inc()
	span.SetAttributes(attribute.String("catalog.version", next.Version()), attribute.Int("catalog.programs", next.Len()))

	r.logger.Info("catalog snapshot swapped", map[string]interface{}{
		"catalogVersion":  next.Version(),
		"previousVersion": res.PreviousVersion,
		"programs":        next.Len(),
		"durationMs":      time.Since(start).Milliseconds(),
	})

	if r.cache != nil {
		if err := r.cache.Save(ctx, next); err != nil {
			r.logger.WithError(err).Warn("catalog cache write failed", nil)
			res.Warnings = append(res.Warnings, errors.AsWarning(errors.Normalize(err)))
		}
	}

	if r.publisher != nil {
		event := aws.CatalogVersionEvent{
			Version:         next.Version(),
			PreviousVersion: res.PreviousVersion,
			AdmissionYear:   next.AdmissionYear(),
			Programs:        next.Len(),
			Source:          r.source.Name(),
			LoadedAt:        next.LoadedAt(),
		}
		if err := r.publisher.PublishCatalogVersion(ctx, event); err != nil {
			pubErr := errors.NewEventPublishFailedError("catalog.version.changed", err)
			r.logger.WithError(err).Warn("catalog event publish failed", nil)
			res.Warnings = append(res.Warnings, errors.AsWarning(pubErr))
		}
	}

	return res, nil
}

// Run refreshes on every tick until ctx is cancelled. Errors are logged.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
				r.logger.WithError(err).Warn("scheduled catalog refresh failed", nil)
			}
		}
	}
}
