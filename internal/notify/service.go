// Package notify materializes and serves notifications: role broadcasts
// for biomedical staff and point-to-point messages for technicians.
package notify

import (
	"context"
	"strings"

	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"go.uber.org/zap"
)

// Store is the slice of the persistence gateway this service needs.
type Store interface {
	InsertNotification(ctx context.Context, n storage.Notification) (int64, error)
	GetNotification(ctx context.Context, id int64) (*storage.Notification, error)
	ListNotificationsForRole(ctx context.Context, role string) ([]storage.Notification, error)
	ListNotificationsForUser(ctx context.Context, userID int64) ([]storage.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	CountUnreadForRole(ctx context.Context, role string) (int, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int, error)
}

// Broadcaster receives a best-effort hint whenever a notification is
// created. Polling remains the delivery contract; a dropped hint is not
// an error.
type Broadcaster interface {
	NotificationCreated(n storage.Notification)
}

// Target is the addressing mode of a notification: exactly one of
// UserID or Role must be set.
type Target struct {
	UserID *int64
	Role   *types.Role
}

type Service struct {
	store       Store
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// SetBroadcaster attaches the live-feed hub. Optional.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create persists a notification addressed to a user or to a role.
func (s *Service) Create(ctx context.Context, message string, target Target) (int64, error) {
	if strings.TrimSpace(message) == "" {
		return 0, types.NewValidationError("mensaje", "es obligatorio")
	}
	if (target.UserID == nil) == (target.Role == nil) {
		return 0, types.NewValidationError("destino", "se requiere exactamente uno de usuario_id o rol_destino")
	}
	if target.Role != nil && !target.Role.Valid() {
		return 0, types.NewValidationError("rol_destino", "rol desconocido")
	}

	n := storage.Notification{Message: message, TargetUserID: target.UserID}
	if target.Role != nil {
		role := string(*target.Role)
		n.TargetRole = &role
	}

	id, err := s.store.InsertNotification(ctx, n)
	if err != nil {
		return 0, err
	}

	n.ID = id
	if s.broadcaster != nil {
		s.broadcaster.NotificationCreated(n)
	}

	s.logger.Info("notification created",
		zap.Int64("id", id),
		zap.Bool("role_broadcast", target.Role != nil))

	return id, nil
}

// ListForRole returns role-broadcast notifications, newest first.
func (s *Service) ListForRole(ctx context.Context, role types.Role) ([]storage.Notification, error) {
	if !role.Valid() {
		return nil, types.NewValidationError("rol", "rol desconocido")
	}
	return s.store.ListNotificationsForRole(ctx, string(role))
}

// ListForUser returns user-targeted notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]storage.Notification, error) {
	return s.store.ListNotificationsForUser(ctx, userID)
}

// Get returns one notification by id.
func (s *Service) Get(ctx context.Context, id int64) (*storage.Notification, error) {
	return s.store.GetNotification(ctx, id)
}

// MarkRead transitions a notification to read. Idempotent: marking an
// already-read notification is not an error and causes no change.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	return s.store.MarkNotificationRead(ctx, id)
}

// UnreadCountForRole returns the badge counter for a role's broadcast list.
func (s *Service) UnreadCountForRole(ctx context.Context, role types.Role) (int, error) {
	if !role.Valid() {
		return 0, types.NewValidationError("rol", "rol desconocido")
	}
	return s.store.CountUnreadForRole(ctx, string(role))
}

// UnreadCountForUser returns the badge counter for a user's targeted list.
func (s *Service) UnreadCountForUser(ctx context.Context, userID int64) (int, error) {
	return s.store.CountUnreadForUser(ctx, userID)
}
