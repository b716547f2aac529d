package storage

import (
	"context"
	"errors"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/jackc/pgx/v5/pgconn"
)

// AddTracking subscribes a user to an equipment. Duplicate subscriptions
// are rejected as validation errors.
func (p *PostgresClient) AddTracking(ctx context.Context, userID, equipmentID int64) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO seguimientos (usuario_id, equipo_id)
		VALUES ($1, $2)
		RETURNING id
	`, userID, equipmentID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, types.NewValidationError("equipo_id", "el equipo ya esta en seguimiento")
			case "23503":
				return 0, types.NewNotFoundError("equipo", equipmentID)
			}
		}
		return 0, types.NewStorageError("add tracking", err)
	}
	return id, nil
}

func (p *PostgresClient) ListTracking(ctx context.Context, userID int64) ([]TrackingEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, usuario_id, equipo_id, created_at
		FROM seguimientos
		WHERE usuario_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, types.NewStorageError("list tracking", err)
	}
	defer rows.Close()

	entries := make([]TrackingEntry, 0)
	for rows.Next() {
		var t TrackingEntry
		if err := rows.Scan(&t.ID, &t.UserID, &t.EquipmentID, &t.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan tracking entry", err)
		}
		entries = append(entries, t)
	}
	return entries, nil
}

// RemoveTracking deletes a subscription owned by userID.
func (p *PostgresClient) RemoveTracking(ctx context.Context, userID, trackingID int64) error {
	result, err := p.pool.Exec(ctx, `
		DELETE FROM seguimientos WHERE id = $1 AND usuario_id = $2
	`, trackingID, userID)
	if err != nil {
		return types.NewStorageError("remove tracking", err)
	}
	if result.RowsAffected() == 0 {
		return types.NewNotFoundError("seguimiento", trackingID)
	}
	return nil
}
