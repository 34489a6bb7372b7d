package shopauth

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ToastLevel defines a public type used by shopauth APIs.
//
// ToastLevel instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ToastLevel string

const (
	// ToastInfo is an exported constant or variable used by the session engine.
	ToastInfo ToastLevel = "info"
	// ToastWarning is an exported constant or variable used by the session engine.
	ToastWarning ToastLevel = "warning"
	// ToastError is an exported constant or variable used by the session engine.
	ToastError ToastLevel = "error"
)

// Toast is a user-facing notification emitted by the engine. Delivery is
// fire-and-forget: no flow blocks on presentation.
type Toast struct {
	ID      string     `json:"id"`
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
	Time    time.Time  `json:"time"`
}

// ToastSink receives [Toast] values from the engine's notification
// dispatcher.
type ToastSink interface {
	Show(ctx context.Context, t Toast)
}

// NoOpToastSink is a [ToastSink] that silently discards all toasts.
type NoOpToastSink struct{}

// Show describes the show operation and its observable behavior.
//
// Show discards the toast.
func (NoOpToastSink) Show(context.Context, Toast) {}

// ChannelToastSink is a buffered channel-based [ToastSink], mainly for
// tests and UIs that render from a queue.
type ChannelToastSink struct {
	toasts chan Toast
}

// NewChannelToastSink creates a [ChannelToastSink] with the given buffer
// capacity.
func NewChannelToastSink(buffer int) *ChannelToastSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelToastSink{
		toasts: make(chan Toast, buffer),
	}
}

// Show describes the show operation and its observable behavior.
//
// Show enqueues the toast, honoring context cancellation.
func (s *ChannelToastSink) Show(ctx context.Context, t Toast) {
	select {
	case s.toasts <- t:
	case <-ctx.Done():
	}
}

// Toasts returns the receive side of the sink queue.
func (s *ChannelToastSink) Toasts() <-chan Toast {
	return s.toasts
}

type toastDispatcher struct {
	cfg       NotificationsConfig
	sink      ToastSink
	ch        chan Toast
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newToastDispatcher(cfg NotificationsConfig, sink ToastSink) *toastDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpToastSink{}
	}

	d := &toastDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Toast, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *toastDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case t := <-d.ch:
			d.sink.Show(context.Background(), t)
		case <-d.done:
			for {
				select {
				case t := <-d.ch:
					d.sink.Show(context.Background(), t)
				default:
					return
				}
			}
		}
	}
}

// Emit describes the emit operation and its observable behavior.
//
// Emit enqueues a toast for delivery; with DropIfFull set, a full buffer
// drops the toast instead of blocking the caller.
func (d *toastDispatcher) Emit(ctx context.Context, level ToastLevel, message string) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t := Toast{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Time:    time.Now(),
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- t:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- t:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close describes the close operation and its observable behavior.
//
// Close drains queued toasts and stops the delivery goroutine.
func (d *toastDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped describes the dropped operation and its observable behavior.
//
// Dropped returns the number of toasts discarded under backpressure.
func (d *toastDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
