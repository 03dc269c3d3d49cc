package eventbus

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinged struct {
	data string
}

type ponged struct{}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestBus_PublishNoSubscribers(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := New(log)
	Subscribe(bus, func(context.Context, ponged) {
		t.Error("should not be called")
	})

	err := bus.Publish(context.Background(), pinged{data: "test"})

	require.ErrorIs(t, err, ErrNoSubscribers)
	assert.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestBus_Subscribe(t *testing.T) {
	bus := New(logrus.New())
	var got string
	Subscribe(bus, func(_ context.Context, e pinged) {
		got = e.data
	})

	require.NoError(t, bus.Publish(context.Background(), pinged{data: "test"}))
	assert.Equal(t, "test", got)
	assert.Equal(t, 1, bus.SubscribersCount())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New(nil)
	calls := 0
	unsubscribe := Subscribe(bus, func(context.Context, pinged) { calls++ })
	Subscribe(bus, func(context.Context, pinged) { calls++ })

	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), pinged{}))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.SubscribersCount())
}

func TestBus_PanicRecovery(t *testing.T) {
	log, buf := bufferedLogger(logrus.ErrorLevel)
	bus := New(log)

	first, third := false, false
	Subscribe(bus, func(context.Context, pinged) { first = true })
	Subscribe(bus, func(context.Context, pinged) { panic("handler 2 panic") })
	Subscribe(bus, func(context.Context, pinged) { third = true })

	require.NoError(t, bus.Publish(context.Background(), pinged{data: "important-data"}))

	assert.True(t, first)
	assert.True(t, third)
	assert.Contains(t, buf.String(), "panicked")
	assert.Contains(t, buf.String(), "important-data")
}

func TestBus_AllHandlersPanic(t *testing.T) {
	log, _ := bufferedLogger(logrus.ErrorLevel)
	bus := New(log)
	Subscribe(bus, func(context.Context, pinged) { panic("always panics") })

	err := bus.Publish(context.Background(), pinged{})

	require.ErrorIs(t, err, ErrNoSubscribers)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := New(nil)
	var mu sync.Mutex
	count := 0
	Subscribe(bus, func(context.Context, pinged) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), pinged{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
}
