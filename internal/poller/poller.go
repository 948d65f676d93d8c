package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/logging"
)

// DefaultMinInterval is the shortest wait between refresh cycles.
const DefaultMinInterval = time.Minute

// Refresher runs one refresh cycle and reports the interval to wait before the next.
type Refresher interface {
	Refresh(ctx context.Context) error
	Interval() time.Duration
}

// Poller refreshes, waits the refresher's current interval, and repeats.
// The interval is re-read after every cycle, so changes apply on the next wait.
type Poller struct {
	refresher   Refresher
	logger      *slog.Logger
	minInterval time.Duration
	now         func() time.Time

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	Running             bool
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	NextRun             time.Time
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller. A non-positive minInterval uses DefaultMinInterval.
func New(refresher Refresher, logger *slog.Logger, minInterval time.Duration) *Poller {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Poller{
		refresher:   refresher,
		logger:      logger,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Start runs a refresh immediately and keeps rescheduling until Stop or ctx is done.
// Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go p.loop(ctx, p.stop, p.done)
}

// Stop disarms the timer and waits for an in-flight cycle to finish, or for ctx.
// Stopping a stopped poller does nothing.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	close(p.stop)
	done := p.done
	p.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the loop is armed.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	p.logInfo("poller started")

	for {
		p.cycle(ctx)

		wait := p.nextInterval()
		p.setNextRun(p.now().Add(wait))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.markStopped(stop)
			p.logInfo("poller stopped", slog.String("reason", "context done"))
			return
		case <-stop:
			timer.Stop()
			p.logInfo("poller stopped")
			return
		case <-timer.C:
		}

		// A stop that raced with the timer wins.
		select {
		case <-stop:
			p.logInfo("poller stopped")
			return
		default:
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	start := p.now()
	p.recordAttempt(start)

	err := p.refresher.Refresh(ctx)
	if err != nil {
		p.logError("refresh cycle failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return
	}
	p.recordSuccess(start)
}

func (p *Poller) nextInterval() time.Duration {
	interval := p.refresher.Interval()
	if interval < p.minInterval {
		interval = p.minInterval
	}
	return interval
}

// markStopped clears the running flag when the loop exits on its own.
func (p *Poller) markStopped(stop chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running && p.stop == stop {
		p.running = false
		close(p.stop)
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (p *Poller) setNextRun(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.NextRun = at
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	running := p.Running()
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	st := p.status
	st.Running = running
	if !running {
		st.NextRun = time.Time{}
	}
	return st
}
