package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/sports-hub-service/internal/app/sportshub"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/poller"
)

// Poller is the scheduling behavior the server drives.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// lifecycle drives start/stop/refresh requests from the control endpoints.
// The poller runs on the server's context, not on the request that started it.
type lifecycle struct {
	svc    *sportshub.Service
	poller Poller
	logger *slog.Logger

	mu  sync.Mutex
	ctx context.Context
}

func newLifecycle(svc *sportshub.Service, plr Poller, logger *slog.Logger) *lifecycle {
	return &lifecycle{svc: svc, poller: plr, logger: logger}
}

func (l *lifecycle) bind(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = ctx
}

func (l *lifecycle) runContext() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx == nil {
		return context.Background()
	}
	return l.ctx
}

// Start re-arms the schedule; the first cycle runs immediately.
func (l *lifecycle) Start(_ context.Context) error {
	ctx := l.runContext()
	if err := ctx.Err(); err != nil {
		return err
	}
	l.poller.Start(ctx)
	logging.Info(l.logger, "refresh schedule started")
	return nil
}

// Stop halts the schedule and clears the cached feed.
func (l *lifecycle) Stop(ctx context.Context) error {
	err := l.poller.Stop(ctx)
	l.svc.Stop(ctx)
	logging.Info(l.logger, "refresh schedule stopped")
	return err
}

// Refresh runs one cycle now, outside the schedule.
func (l *lifecycle) Refresh(ctx context.Context) error {
	return l.svc.Refresh(ctx)
}
