package interfaces

import (
	"context"

	"github.com/hospicore/biomedtrack/internal/config"
	"github.com/hospicore/biomedtrack/internal/delegation"
	"github.com/hospicore/biomedtrack/internal/equipment"
	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/report"
	"github.com/hospicore/biomedtrack/internal/storage"
)

// SystemStatus represents the current system state
type SystemStatus struct {
	State            string `json:"state"`
	ConnectedClients int    `json:"connected_clients"`
	SensorFeedActive bool   `json:"sensor_feed_active"`
}

type LifecycleManager interface {
	Config() *config.Config
	Storage() storage.Store
	Notifications() *notify.Service
	Reports() *report.Service
	Delegations() *delegation.Service
	Equipment() *equipment.Service
	GetCurrentStatus() SystemStatus
	Shutdown(ctx context.Context) error
}
