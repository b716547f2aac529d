package storage

import (
	"context"
	"time"
)

// Store is the persistence gateway contract. PostgresClient is the
// production implementation; MemStore backs tests and local development.
type Store interface {
	// users
	CreateUser(ctx context.Context, u User) (*User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*User, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	ListTechnicians(ctx context.Context) ([]TechnicianSummary, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	IncrementFailedLoginAttempts(ctx context.Context, userID int64, maxAttempts int, lockFor time.Duration) error
	ResetFailedLoginAttempts(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
	StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (int64, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID int64) error
	LogAuthEvent(ctx context.Context, eventType string, userID *int64, ipAddress, userAgent string, success bool, reason string) error

	// equipment
	SaveOrUpdateEquipment(ctx context.Context, e Equipment) (int64, error)
	GetEquipment(ctx context.Context, id int64) (*Equipment, error)
	FindEquipmentIDByName(ctx context.Context, name string) (int64, error)
	ListEquipment(ctx context.Context) ([]Equipment, error)

	// sensors
	InsertSensorReading(ctx context.Context, r SensorReading) (int64, error)
	LatestSensorReadings(ctx context.Context, limit int) ([]SensorReading, error)
	SensorReadingsAfter(ctx context.Context, afterID int64) ([]SensorReading, error)

	// reports
	InsertReport(ctx context.Context, r Report) (int64, error)
	GetReport(ctx context.Context, id int64) (*Report, error)
	ListReports(ctx context.Context) ([]Report, error)

	// notifications
	InsertNotification(ctx context.Context, n Notification) (int64, error)
	GetNotification(ctx context.Context, id int64) (*Notification, error)
	ListNotificationsForRole(ctx context.Context, role string) ([]Notification, error)
	ListNotificationsForUser(ctx context.Context, userID int64) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	CountUnreadForRole(ctx context.Context, role string) (int, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int, error)

	// delegations
	InsertDelegation(ctx context.Context, d Delegation) (int64, error)
	ListDelegationsForTechnician(ctx context.Context, technicianID int64) ([]Delegation, error)

	// maintenance
	InsertMaintenanceRecord(ctx context.Context, m MaintenanceRecord) (int64, error)
	ListMaintenanceRecords(ctx context.Context, equipmentID int64) ([]MaintenanceRecord, error)

	// tracking
	AddTracking(ctx context.Context, userID, equipmentID int64) (int64, error)
	ListTracking(ctx context.Context, userID int64) ([]TrackingEntry, error)
	RemoveTracking(ctx context.Context, userID, trackingID int64) error
}

var _ Store = (*PostgresClient)(nil)
var _ Store = (*MemStore)(nil)
