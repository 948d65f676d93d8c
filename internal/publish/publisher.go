package publish

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
)

// Publisher receives the service's outbound events. Implementations must not block
// for long and never return errors; delivery failures are their own concern.
type Publisher interface {
	FeedUpdated(ctx context.Context, feed games.Feed)
	Log(ctx context.Context, msg string)
	Warn(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// Event types sent to subscribers.
const (
	EventFeedUpdated = "feed_updated"
	EventLog         = "log"
	EventWarn        = "warn"
	EventError       = "error"
)

type multi []Publisher

// Multi fans every event out to each non-nil publisher in order.
func Multi(pubs ...Publisher) Publisher {
	out := make(multi, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m multi) FeedUpdated(ctx context.Context, feed games.Feed) {
	for _, p := range m {
		p.FeedUpdated(ctx, feed)
	}
}

func (m multi) Log(ctx context.Context, msg string) {
	for _, p := range m {
		p.Log(ctx, msg)
	}
}

func (m multi) Warn(ctx context.Context, msg string) {
	for _, p := range m {
		p.Warn(ctx, msg)
	}
}

func (m multi) Error(ctx context.Context, msg string) {
	for _, p := range m {
		p.Error(ctx, msg)
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) FeedUpdated(context.Context, games.Feed) {}
func (Nop) Log(context.Context, string)              {}
func (Nop) Warn(context.Context, string)             {}
func (Nop) Error(context.Context, string)            {}

// LogPublisher writes events to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a publisher backed by logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) FeedUpdated(ctx context.Context, feed games.Feed) {
	logging.Info(logging.FromContext(ctx, p.logger), "feed updated",
		slog.Int(logging.FieldCount, len(feed.AllGames)),
		slog.Int("leagues", len(feed.PerLeague)),
		slog.String("last_updated", feed.LastUpdatedDisplay),
	)
}

func (p *LogPublisher) Log(ctx context.Context, msg string) {
	logging.Info(logging.FromContext(ctx, p.logger), msg)
}

func (p *LogPublisher) Warn(ctx context.Context, msg string) {
	logging.Warn(logging.FromContext(ctx, p.logger), msg)
}

func (p *LogPublisher) Error(ctx context.Context, msg string) {
	logging.Error(logging.FromContext(ctx, p.logger), msg, nil)
}
