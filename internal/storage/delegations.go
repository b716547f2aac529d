package storage

import (
	"context"
	"errors"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/jackc/pgx/v5"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (p *PostgresClient) InsertDelegation(ctx context.Context, d Delegation) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO delegaciones (notificacion_id, tecnico_id, biomedico_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, d.NotificationID, d.TechnicianID, d.BiomedicoID).Scan(&id)
	if err != nil {
		return 0, types.NewStorageError("insert delegation", err)
	}
	return id, nil
}

func (p *PostgresClient) ListDelegationsForTechnician(ctx context.Context, technicianID int64) ([]Delegation, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, notificacion_id, tecnico_id, biomedico_id, created_at
		FROM delegaciones
		WHERE tecnico_id = $1
		ORDER BY created_at DESC, id DESC
	`, technicianID)
	if err != nil {
		return nil, types.NewStorageError("list delegations", err)
	}
	defer rows.Close()

	delegations := make([]Delegation, 0)
	for rows.Next() {
		var d Delegation
		if err := rows.Scan(&d.ID, &d.NotificationID, &d.TechnicianID, &d.BiomedicoID, &d.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan delegation", err)
		}
		delegations = append(delegations, d)
	}
	return delegations, nil
}
