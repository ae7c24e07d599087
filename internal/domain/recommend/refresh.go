package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/skyplan/internal/domain/observer"
)

// Publisher receives recomputed recommendations for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, observerID string, resp Response) error
}

// RefreshConfig lists the observers to keep warm and how often.
type RefreshConfig struct {
	Interval    time.Duration
	ObserverIDs []string
	Recommender string
}

// Refresher recomputes recommendations on a schedule. Moving targets and the
// Moon change the ranking through the night even when nothing else does.
type Refresher struct {
	cfg       RefreshConfig
	svc       Service
	publisher Publisher
	logger    *slog.Logger
}

// NewRefresher wires the scheduled recomputation.
func NewRefresher(cfg RefreshConfig, svc Service, publisher Publisher, logger *slog.Logger) *Refresher {
	return &Refresher{
		cfg:       cfg,
		svc:       svc,
		publisher: publisher,
		logger:    logger.With("component", "recommend.refresher"),
	}
}

// Enabled reports whether there is anything to refresh.
func (r *Refresher) Enabled() bool {
	return r.cfg.Interval > 0 && len(r.cfg.ObserverIDs) > 0
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	if !r.Enabled() {
		r.logger.Info("recommendation refresh disabled")
		return
	}
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Warn("recommendation refresh incomplete", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce recomputes every configured observer and returns how many were
// published. One observer failing does not stop the others.
func (r *Refresher) RunOnce(ctx context.Context) (int, error) {
	var (
		published int
		errs      []error
	)
	for _, id := range r.cfg.ObserverIDs {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		resp, err := r.svc.Recommend(ctx, Request{Observer: observer.Ref{ID: id}, Recommender: r.cfg.Recommender})
		if err != nil {
			errs = append(errs, fmt.Errorf("observer %s: %w", id, err))
			continue
		}
		if err := r.publisher.Publish(ctx, id, resp); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", id, err))
			continue
		}
		published++
		r.logger.Debug("recommendations refreshed", "observerId", id, "targets", len(resp.Targets))
	}
	return published, errors.Join(errs...)
}
