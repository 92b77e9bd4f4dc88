package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	DefaultFPS = 60

	// MaxFrameDelta caps the dt of a single frame.
	MaxFrameDelta = 100 * time.Millisecond

	commandBuffer = 64
)

var (
	ErrDriverStopped = errors.New("scheduler: driver stopped")
	ErrDriverRunning = errors.New("scheduler: driver already running")
)

type DriverConfig struct {
	FPS    int
	Logger *slog.Logger

	// OnFrame runs on the driver goroutine after every frame and after every
	// batch of commands. It may read the scheduler but must not retain it.
	OnFrame func(s *Scheduler, active bool)
}

// Driver owns a Scheduler on one goroutine and feeds it commands.
type Driver struct {
	sched    *Scheduler
	cmds     chan func(*Scheduler)
	done     chan struct{}
	interval time.Duration
	logger   *slog.Logger
	onFrame  func(*Scheduler, bool)
	now      func() time.Time
	frames   atomic.Uint64
	running  atomic.Bool
}

func NewDriver(s *Scheduler, cfg DriverConfig) *Driver {
	if s == nil {
		s = New()
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		sched:    s,
		cmds:     make(chan func(*Scheduler), commandBuffer),
		done:     make(chan struct{}),
		interval: time.Second / time.Duration(fps),
		logger:   logger.With("component", "driver"),
		onFrame:  cfg.OnFrame,
		now:      time.Now,
	}
}

// Do enqueues fn to run on the driver goroutine before the next frame. It
// blocks while the command buffer is full and fails once Run has returned.
func (d *Driver) Do(fn func(*Scheduler)) error {
	if fn == nil {
		return nil
	}
	select {
	case <-d.done:
		return ErrDriverStopped
	default:
	}
	select {
	case d.cmds <- fn:
		return nil
	case <-d.done:
		return ErrDriverStopped
	}
}

// Frames returns the number of frames ticked so far.
func (d *Driver) Frames() uint64 { return d.frames.Load() }

// Run drives the scheduler until ctx is cancelled. It may be called once.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrDriverRunning
	}
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	ticker.Stop()
	defer ticker.Stop()

	d.logger.Debug("driver started", "interval", d.interval)

	var (
		tickCh <-chan time.Time
		last   time.Time
	)
	wake := func() {
		if tickCh != nil {
			return
		}
		last = d.now()
		ticker.Reset(d.interval)
		tickCh = ticker.C
		d.logger.Debug("driver awake", "frames", d.frames.Load())
	}
	park := func() {
		if tickCh == nil {
			return
		}
		ticker.Stop()
		tickCh = nil
		d.logger.Debug("driver idle", "frames", d.frames.Load())
	}

	if d.sched.HasActiveAnimations() {
		wake()
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("driver stopped", "frames", d.frames.Load(), "reason", ctx.Err())
			return ctx.Err()

		case fn := <-d.cmds:
			fn(d.sched)
			d.drain()
			active := d.sched.HasActiveAnimations()
			if active {
				wake()
			}
			if d.onFrame != nil {
				d.onFrame(d.sched, active)
			}

		case <-tickCh:
			now := d.now()
			dt := now.Sub(last)
			last = now
			if dt > MaxFrameDelta {
				dt = MaxFrameDelta
			}

			active := d.sched.Tick(float64(dt) / float64(time.Millisecond))
			d.frames.Add(1)
			if d.onFrame != nil {
				d.onFrame(d.sched, active)
			}
			if !active {
				park()
			}
		}
	}
}

// drain applies every command already queued without blocking.
func (d *Driver) drain() {
	for {
		select {
		case fn := <-d.cmds:
			fn(d.sched)
		default:
			return
		}
	}
}
