package storage

import (
	"context"

	"github.com/hospicore/biomedtrack/internal/types"
)

// InsertNotification persists a notification. The caller guarantees the
// one-of addressing invariant; the schema CHECK enforces it as a backstop.
func (p *PostgresClient) InsertNotification(ctx context.Context, n Notification) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO notificaciones (mensaje, usuario_id, rol_destino)
		VALUES ($1, $2, $3)
		RETURNING id
	`, n.Message, n.TargetUserID, n.TargetRole).Scan(&id)
	if err != nil {
		return 0, types.NewStorageError("insert notification", err)
	}
	return id, nil
}

func (p *PostgresClient) GetNotification(ctx context.Context, id int64) (*Notification, error) {
	var n Notification
	err := p.pool.QueryRow(ctx, `
		SELECT id, mensaje, usuario_id, rol_destino, leida, created_at
		FROM notificaciones
		WHERE id = $1
	`, id).Scan(&n.ID, &n.Message, &n.TargetUserID, &n.TargetRole, &n.Read, &n.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, types.NewNotFoundError("notificacion", id)
		}
		return nil, types.NewStorageError("get notification", err)
	}
	return &n, nil
}

// ListNotificationsForRole returns role-broadcast notifications, newest first.
func (p *PostgresClient) ListNotificationsForRole(ctx context.Context, role string) ([]Notification, error) {
	return p.listNotifications(ctx, `
		SELECT id, mensaje, usuario_id, rol_destino, leida, created_at
		FROM notificaciones
		WHERE rol_destino = $1
		ORDER BY created_at DESC, id DESC
	`, role)
}

// ListNotificationsForUser returns user-targeted notifications, newest first.
func (p *PostgresClient) ListNotificationsForUser(ctx context.Context, userID int64) ([]Notification, error) {
	return p.listNotifications(ctx, `
		SELECT id, mensaje, usuario_id, rol_destino, leida, created_at
		FROM notificaciones
		WHERE usuario_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (p *PostgresClient) listNotifications(ctx context.Context, query string, arg any) ([]Notification, error) {
	rows, err := p.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, types.NewStorageError("list notifications", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.TargetUserID, &n.TargetRole, &n.Read, &n.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan notification", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationRead transitions unread -> read. Idempotent: marking a
// read notification again succeeds with no further change.
func (p *PostgresClient) MarkNotificationRead(ctx context.Context, id int64) error {
	result, err := p.pool.Exec(ctx, `
		UPDATE notificaciones SET leida = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return types.NewStorageError("mark notification read", err)
	}
	if result.RowsAffected() == 0 {
		return types.NewNotFoundError("notificacion", id)
	}
	return nil
}

// CountUnreadForRole counts unread role-broadcast notifications.
func (p *PostgresClient) CountUnreadForRole(ctx context.Context, role string) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notificaciones WHERE rol_destino = $1 AND leida = FALSE
	`, role).Scan(&count)
	if err != nil {
		return 0, types.NewStorageError("count unread for role", err)
	}
	return count, nil
}

// CountUnreadForUser counts unread user-targeted notifications.
func (p *PostgresClient) CountUnreadForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notificaciones WHERE usuario_id = $1 AND leida = FALSE
	`, userID).Scan(&count)
	if err != nil {
		return 0, types.NewStorageError("count unread for user", err)
	}
	return count, nil
}
