package events

import (
	"context"
	"log/slog"

	"github.com/yanqian/skyplan/internal/domain/recommend"
)

// LogPublisher records refreshed recommendations in the service log. It is
// used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs the publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "events.log")}
}

// Publish implements recommend.Publisher.
func (p *LogPublisher) Publish(_ context.Context, observerID string, resp recommend.Response) error {
	top := ""
	if len(resp.Targets) > 0 {
		top = resp.Targets[0].Target.ID
	}
	p.logger.Info("recommendations refreshed",
		"observerId", observerID,
		"recommender", resp.Recommender,
		"targets", len(resp.Targets),
		"top", top,
		"night", resp.Night.Key(),
	)
	return nil
}

var _ recommend.Publisher = (*LogPublisher)(nil)
