package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/bidouilles/multimaster/internal/logger"
)

// Countdown is a cancelable scheduled task counting down a fixed duration.
// It has a single owner: Start runs it, Stop cancels it. After Stop returns
// no callback will fire, so owners can tear down state safely.
type Countdown struct {
	duration time.Duration
	interval time.Duration
	onTick   func(remaining time.Duration)
	onDone   func()

	mu       sync.Mutex
	deadline time.Time
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// New creates a countdown over duration, invoking onTick every interval
// with the remaining time and onDone once when the countdown expires.
// Either callback may be nil. Callbacks run on the countdown's own
// goroutine and must not call Stop.
func New(duration, interval time.Duration, onTick func(remaining time.Duration), onDone func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		duration: duration,
		interval: interval,
		onTick:   onTick,
		onDone:   onDone,
	}
}

// Start begins the countdown. It is a no-op if already started.
// Cancelling ctx stops the countdown without firing onDone.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.deadline = time.Now().Add(c.duration)

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(ctx)
}

func (c *Countdown) run(ctx context.Context) {
	defer close(c.done)

	log := logger.Default().WithPrefix("countdown")
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	expire := time.NewTimer(c.duration)
	defer expire.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("countdown cancelled with %v remaining", c.Remaining())
			return
		case <-ticker.C:
			if c.onTick != nil {
				c.onTick(c.Remaining())
			}
		case <-expire.C:
			log.Debug("countdown expired")
			if c.onDone != nil {
				c.onDone()
			}
			return
		}
	}
}

// Stop cancels the countdown and waits for the running task to exit.
// Safe to call multiple times and after expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Remaining returns the time left, clamped at zero.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	deadline := c.deadline
	started := c.started
	c.mu.Unlock()

	if !started {
		return c.duration
	}
	r := time.Until(deadline)
	if r < 0 {
		return 0
	}
	return r
}
