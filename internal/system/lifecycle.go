package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hospicore/biomedtrack/internal/api/rest"
	"github.com/hospicore/biomedtrack/internal/api/websocket"
	"github.com/hospicore/biomedtrack/internal/auth"
	"github.com/hospicore/biomedtrack/internal/config"
	"github.com/hospicore/biomedtrack/internal/delegation"
	"github.com/hospicore/biomedtrack/internal/equipment"
	"github.com/hospicore/biomedtrack/internal/interfaces"
	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/report"
	"github.com/hospicore/biomedtrack/internal/sensorfeed"
	"github.com/hospicore/biomedtrack/internal/storage"
	"go.uber.org/zap"
)

// LifecycleManager owns the service graph and the start/stop order.
type LifecycleManager struct {
	config  *config.Config
	storage storage.Store
	logger  *zap.Logger

	authService   *auth.AuthService
	notifications *notify.Service
	reports       *report.Service
	delegations   *delegation.Service
	equipment     *equipment.Service

	wsHub      *websocket.Hub
	sensorFeed *sensorfeed.Poller
	restServer *rest.Server

	stateMu      sync.RWMutex
	currentState SystemState

	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

func NewLifecycleManager(store storage.Store, cfg *config.Config, logger *zap.Logger) *LifecycleManager {
	authService := auth.NewAuthService(store, cfg.Auth)
	notifications := notify.NewService(store, logger)
	reports := report.NewService(store, notifications, cfg.Reports.MaxPhotoBytes, logger)
	delegations := delegation.NewService(store, notifications, logger)

	equipmentValidator, err := equipment.NewValidator()
	if err != nil {
		logger.Fatal("Failed to compile equipment schema", zap.Error(err))
	}
	equipmentService := equipment.NewService(store, equipmentValidator, logger)

	wsHub := websocket.NewHub(logger, authService)
	notifications.SetBroadcaster(wsHub)

	sensorFeed := sensorfeed.NewPoller(store, wsHub, cfg.Sensors.FeedPollInterval, logger)

	return &LifecycleManager{
		config:        cfg,
		storage:       store,
		logger:        logger,
		authService:   authService,
		notifications: notifications,
		reports:       reports,
		delegations:   delegations,
		equipment:     equipmentService,
		wsHub:         wsHub,
		sensorFeed:    sensorFeed,
		currentState:  StateInitializing,
		shutdownChan:  make(chan struct{}),
	}
}

// Start brings up the websocket hub, the sensor feed poller and the REST
// API, in that order.
func (lm *LifecycleManager) Start() error {
	lm.logger.Info("Starting biomedtrack")

	lm.setState(StateInitializing)

	go lm.wsHub.Run()

	if err := lm.sensorFeed.Start(); err != nil {
		lm.setState(StateError)
		return fmt.Errorf("failed to start sensor feed: %w", err)
	}

	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.wsHub, lm.authService)
	if err := lm.restServer.Start(); err != nil {
		lm.setState(StateError)
		return fmt.Errorf("failed to start REST API: %w", err)
	}

	lm.setState(StateRunning)

	lm.logger.Info("System started successfully",
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.Duration("sensor_feed_interval", lm.config.Sensors.FeedPollInterval))

	if !lm.config.Auth.IsProductionReady() {
		lm.logger.Warn("JWT secret is the development default, do not expose this instance")
	}

	return nil
}

// Shutdown gracefully shuts down the system
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down system")
		lm.setState(StateStopping)

		shutdownErr = lm.gracefulShutdown(ctx)

		lm.setState(StateStopped)
		close(lm.shutdownChan)
	})

	return shutdownErr
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	// 1. Stop the sensor feed poller
	wg.Add(1)
	go func() {
		defer wg.Done()
		lm.sensorFeed.Stop()
	}()

	// 2. REST API Server graceful shutdown
	if lm.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := lm.restServer.Shutdown(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("rest api shutdown failed: %w", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		lm.logger.Info("Graceful shutdown completed")
		return nil
	case <-ctx.Done():
		lm.logger.Warn("Shutdown timeout, forcing stop")
		return fmt.Errorf("shutdown timeout exceeded")
	case err := <-errChan:
		return err
	}
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()
	lm.currentState = state
}

// GetCurrentStatus returns current system status (Interface implementation)
func (lm *LifecycleManager) GetCurrentStatus() interfaces.SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	return interfaces.SystemStatus{
		State:            lm.currentState.String(),
		ConnectedClients: lm.wsHub.GetClientCount(),
		SensorFeedActive: lm.sensorFeed.IsRunning(),
	}
}

// Config returns the configuration
func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}

// Storage returns the persistence gateway
func (lm *LifecycleManager) Storage() storage.Store {
	return lm.storage
}

// AuthService returns the auth service
func (lm *LifecycleManager) AuthService() *auth.AuthService {
	return lm.authService
}

// Notifications returns the notification fan-out service
func (lm *LifecycleManager) Notifications() *notify.Service {
	return lm.notifications
}

// Reports returns the report intake service
func (lm *LifecycleManager) Reports() *report.Service {
	return lm.reports
}

// Delegations returns the delegation workflow service
func (lm *LifecycleManager) Delegations() *delegation.Service {
	return lm.delegations
}

// Equipment returns the equipment registry service
func (lm *LifecycleManager) Equipment() *equipment.Service {
	return lm.equipment
}

// RESTServer returns the running REST server, nil before Start.
func (lm *LifecycleManager) RESTServer() *rest.Server {
	return lm.restServer
}
