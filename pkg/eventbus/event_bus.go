package eventbus

import (
	"context"
	"reflect"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

var ErrNoSubscribers = errors.New("eventbus: no matching subscribers")

// EventBus dispatches events to the handlers registered for the event's
// dynamic type. Handlers run synchronously on the publishing goroutine.
type EventBus interface {
	Publish(ctx context.Context, event any) error
	SubscribersCount() int
}

type handler struct {
	id int
	fn func(ctx context.Context, event any)
}

type Bus struct {
	log *logrus.Logger

	mu       sync.RWMutex
	nextID   int
	handlers map[reflect.Type][]handler
}

func New(log *logrus.Logger) *Bus {
	return &Bus{log: log, handlers: map[reflect.Type][]handler{}}
}

// Subscribe registers fn for events of type E and returns a func that removes it.
func Subscribe[E any](b *Bus, fn func(ctx context.Context, event E)) func() {
	t := reflect.TypeOf((*E)(nil)).Elem()

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], handler{
		id: id,
		fn: func(ctx context.Context, event any) { fn(ctx, event.(E)) },
	})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[t]
		for i, h := range hs {
			if h.id == id {
				b.handlers[t] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every handler subscribed to the event's type. A panicking
// handler is logged and does not stop the remaining handlers.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if event == nil {
		return errors.New("eventbus: nil event")
	}
	t := reflect.TypeOf(event)

	b.mu.RLock()
	hs := append([]handler(nil), b.handlers[t]...)
	b.mu.RUnlock()

	handled := 0
	for _, h := range hs {
		if b.call(ctx, h, event) {
			handled++
		}
	}
	if handled == 0 {
		if b.log != nil {
			b.log.Warnf("eventbus.Publish: no matching subscribers for %s", t)
		}
		return ErrNoSubscribers
	}
	return nil
}

func (b *Bus) call(ctx context.Context, h handler, event any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if b.log != nil {
				b.log.Errorf("eventbus: handler for %T panicked with args %+v: %v", event, event, r)
			}
		}
	}()
	h.fn(ctx, event)
	return true
}

func (b *Bus) SubscribersCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, hs := range b.handlers {
		n += len(hs)
	}
	return n
}
