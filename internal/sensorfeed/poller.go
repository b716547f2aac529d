package sensorfeed

import (
	"context"
	"sync"
	"time"

	"github.com/hospicore/biomedtrack/internal/storage"
	"go.uber.org/zap"
)

// Store is the slice of the storage layer the poller needs.
type Store interface {
	LatestSensorReadings(ctx context.Context, limit int) ([]storage.SensorReading, error)
	SensorReadingsAfter(ctx context.Context, afterID int64) ([]storage.SensorReading, error)
}

// Broadcaster receives readings picked up by the poller. The websocket
// hub implements it.
type Broadcaster interface {
	SensorReading(r storage.SensorReading)
}

// Poller watches the sensores table and pushes new rows to the
// broadcaster. It supplements the clients' HTTP polling, it does not
// replace it.
type Poller struct {
	store       Store
	broadcaster Broadcaster
	interval    time.Duration
	logger      *zap.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
	running     bool
	lastID      int64
	mu          sync.Mutex
}

func NewPoller(store Store, broadcaster Broadcaster, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the poll loop. Existing readings are not replayed; only
// rows inserted after Start are broadcast.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	latest, err := p.store.LatestSensorReadings(ctx, 1)
	cancel()
	if err != nil {
		return err
	}
	if len(latest) > 0 {
		p.lastID = latest[0].ID
	}

	p.running = true
	p.wg.Add(1)

	go p.pollLoop()

	p.logger.Info("Sensor feed poller started",
		zap.Duration("interval", p.interval),
		zap.Int64("last_id", p.lastID))

	return nil
}

// Stop halts the poll loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.stopChan)
	p.wg.Wait()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.logger.Info("Sensor feed poller stopped")
}

func (p *Poller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval/2)
	defer cancel()

	p.mu.Lock()
	lastID := p.lastID
	p.mu.Unlock()

	readings, err := p.store.SensorReadingsAfter(ctx, lastID)
	if err != nil {
		p.logger.Error("Sensor feed poll failed", zap.Error(err))
		return
	}

	for _, r := range readings {
		p.broadcaster.SensorReading(r)
		lastID = r.ID
	}

	p.mu.Lock()
	p.lastID = lastID
	p.mu.Unlock()
}

// IsRunning reports whether the poll loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
