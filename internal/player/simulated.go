package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sushantdwivedi/Frame-io/internal/observability"
)

// Simulated is a clock-driven Controller used when no real decoder is wired,
// and in tests. Run emits status updates on every tick while playing.
type Simulated struct {
	mu         sync.Mutex
	currentMs  int64
	durationMs int64
	playing    bool
	log        *slog.Logger

	// FailNext makes the next control call return this error once.
	FailNext error
}

var (
	_ Controller = (*Simulated)(nil)
	_ Reporter   = (*Simulated)(nil)
)

func NewSimulated(durationMs int64) *Simulated {
	return &Simulated{
		durationMs: durationMs,
		log:        observability.Logger().With("component", "player"),
	}
}

func (p *Simulated) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return err
	}
	p.playing = true
	return nil
}

func (p *Simulated) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return err
	}
	p.playing = false
	return nil
}

func (p *Simulated) Seek(ctx context.Context, ms int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.takeFailure(); err != nil {
		return err
	}
	if ms < 0 {
		ms = 0
	}
	if p.durationMs > 0 && ms > p.durationMs {
		ms = p.durationMs
	}
	p.currentMs = ms
	return nil
}

// Status returns the current position.
func (p *Simulated) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{CurrentMs: p.currentMs, DurationMs: p.durationMs, IsPlaying: p.playing}
}

// Advance moves the clock forward by d while playing and stops at the end.
func (p *Simulated) Advance(d time.Duration) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.currentMs += d.Milliseconds()
		if p.durationMs > 0 && p.currentMs >= p.durationMs {
			p.currentMs = p.durationMs
			p.playing = false
		}
	}
	return Status{CurrentMs: p.currentMs, DurationMs: p.durationMs, IsPlaying: p.playing}
}

// Run ticks until ctx is done, calling emit with the status after each tick.
// emit runs on Run's goroutine; UI callers must hop to their event thread.
func (p *Simulated) Run(ctx context.Context, tick time.Duration, emit func(Status)) {
	t := time.NewTicker(tick)
	defer t.Stop()
	p.log.Debug("simulated player running", "tick", tick)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			emit(p.Advance(tick))
		}
	}
}

func (p *Simulated) takeFailure() error {
	err := p.FailNext
	p.FailNext = nil
	return err
}
