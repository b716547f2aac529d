package sensorfeed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

type captureBroadcaster struct {
	mu       sync.Mutex
	readings []storage.SensorReading
}

func (c *captureBroadcaster) SensorReading(r storage.SensorReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readings = append(c.readings, r)
}

func (c *captureBroadcaster) snapshot() []storage.SensorReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]storage.SensorReading, len(c.readings))
	copy(out, c.readings)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPollerBroadcastsNewReadings(t *testing.T) {
	is := is.New(t)

	store := storage.NewMemStore()
	ctx := context.Background()

	// A reading present before Start must not be replayed.
	_, err := store.InsertSensorReading(ctx, storage.SensorReading{Device: "estacion-1", Temperature: 20})
	is.NoErr(err)

	capture := &captureBroadcaster{}
	poller := NewPoller(store, capture, 10*time.Millisecond, zap.NewNop())

	is.NoErr(poller.Start())
	defer poller.Stop()

	_, err = store.InsertSensorReading(ctx, storage.SensorReading{Device: "estacion-1", Temperature: 21})
	is.NoErr(err)
	_, err = store.InsertSensorReading(ctx, storage.SensorReading{Device: "estacion-2", Temperature: 22})
	is.NoErr(err)

	waitFor(t, 2*time.Second, func() bool { return len(capture.snapshot()) >= 2 })

	readings := capture.snapshot()
	is.Equal(len(readings), 2)
	is.Equal(readings[0].Temperature, 21.0)
	is.Equal(readings[1].Temperature, 22.0)
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	is := is.New(t)

	store := storage.NewMemStore()
	poller := NewPoller(store, &captureBroadcaster{}, 10*time.Millisecond, zap.NewNop())

	is.True(!poller.IsRunning())
	is.NoErr(poller.Start())
	is.NoErr(poller.Start()) // second Start is a no-op
	is.True(poller.IsRunning())

	poller.Stop()
	poller.Stop() // second Stop is a no-op
	is.True(!poller.IsRunning())
}

func TestReadingsAreNotRebroadcast(t *testing.T) {
	is := is.New(t)

	store := storage.NewMemStore()
	ctx := context.Background()
	capture := &captureBroadcaster{}
	poller := NewPoller(store, capture, 10*time.Millisecond, zap.NewNop())

	is.NoErr(poller.Start())
	defer poller.Stop()

	_, err := store.InsertSensorReading(ctx, storage.SensorReading{Device: "estacion-1", Weight: 3.2})
	is.NoErr(err)

	waitFor(t, 2*time.Second, func() bool { return len(capture.snapshot()) >= 1 })

	// Give the poller a few more cycles; the same row must not reappear.
	time.Sleep(50 * time.Millisecond)
	is.Equal(len(capture.snapshot()), 1)
}
