// Package notify delivers engine events to the outside world. Every
// delivery path implements Notifier; Multi fans out and Async moves
// delivery off the request path.
package notify

import (
	"context"
	"errors"
	"sync"

	"ambassador_engine/internal/model"
	"ambassador_engine/pkg/logger"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("notifier closed")

type Notifier interface {
	Notify(ctx context.Context, event model.Event) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event model.Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async queues events and delivers them from background workers. Delivery
// errors are logged; Notify only fails once the queue is closed.
type Async struct {
	next  Notifier
	queue chan model.Event
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Notifier, workers, buffer int) *Async {
	if workers < 1 {
		workers = 1
	}
	a := &Async{
		next:  next,
		queue: make(chan model.Event, buffer),
	}
	for i := 0; i < workers; i++ {
		a.wg.Add(1)
		go a.run()
	}
	return a
}

func (a *Async) run() {
	defer a.wg.Done()
	log := logger.Named("notify")

	for event := range a.queue {
		if err := a.next.Notify(context.Background(), event); err != nil {
			log.Error("failed to deliver event",
				zap.String("event_id", event.ID.String()),
				zap.String("type", string(event.Type)),
				zap.Int64("participant_id", event.ParticipantID),
				zap.Error(err))
		}
	}
}

func (a *Async) Notify(ctx context.Context, event model.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
}
