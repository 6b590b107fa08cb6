// Package scheduler drives scheduled resets. A Poller asks its target to
// evaluate every list once on start and then at a fixed interval, and hands
// non-empty batches to the UI.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/cadence/internal/log"
	"github.com/sandeepkv93/cadence/internal/reset"
)

const DefaultInterval = 30 * time.Second

var ErrStopped = errors.New("scheduler: poller stopped")

// Clock supplies the instant each tick evaluates at.
type Clock func() time.Time

// Target commits every reset due at now. It is the store in production.
type Target interface {
	Tick(ctx context.Context, now time.Time) (reset.Batch, error)
}

type Poller struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	target   Target
	out      chan reset.Batch
	wakeup   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	cancel   context.CancelFunc
	started  bool
	stopped  bool
	dropped  uint64
	failures uint64
}

func NewPoller(interval time.Duration, clock Clock, target Target, bufferSize int) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = time.Now
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Poller{
		interval: interval,
		clock:    clock,
		target:   target,
		out:      make(chan reset.Batch, bufferSize),
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// C delivers committed batches. It is closed once the poller stops.
func (p *Poller) C() <-chan reset.Batch {
	return p.out
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx)
}

// Stop ends the loop and waits for an in-flight tick to finish. Calling it
// more than once is harmless.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	if !p.started {
		close(p.out)
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.cancel()
	p.mu.Unlock()
	<-p.doneCh
}

// Poke requests an immediate tick, for example after the machine resumes
// from sleep. The regular interval restarts from there.
func (p *Poller) Poke() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.wakeup <- struct{}{}:
	default:
	}
	return nil
}

// Dropped counts batches discarded because nobody was reading C.
func (p *Poller) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

// Failures counts ticks whose target returned an error.
func (p *Poller) Failures() uint64 {
	return atomic.LoadUint64(&p.failures)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.doneCh)
	defer close(p.out)

	p.tick(ctx)
	timer := time.NewTimer(p.interval)
	defer stopTimer(timer)
	for {
		select {
		case <-timer.C:
			p.tick(ctx)
			timer.Reset(p.interval)
		case <-p.wakeup:
			p.tick(ctx)
			resetTimer(timer, p.interval)
		case <-p.stopCh:
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	now := p.clock()
	batch, err := p.target.Tick(ctx, now)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		atomic.AddUint64(&p.failures, 1)
		log.Error().Err(err).Time("at", now).Msg("scheduled reset failed")
		return
	}
	if batch.Empty() {
		return
	}
	select {
	case p.out <- batch:
	default:
		atomic.AddUint64(&p.dropped, 1)
		log.Warn().Strs("lists", batch.Reset).Msg("reset batch dropped, consumer is behind")
	}
}

func resetTimer(timer *time.Timer, d time.Duration) {
	stopTimer(timer)
	timer.Reset(d)
}

func stopTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
