package storage

import (
	"context"
	"errors"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresClient) InsertReport(ctx context.Context, r Report) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO reportes (usuario_id, equipo, equipo_id, descripcion, foto)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.UserID, r.EquipmentName, r.EquipmentID, r.Description, r.Photo).Scan(&id)
	if err != nil {
		return 0, types.NewStorageError("insert report", err)
	}
	return id, nil
}

func (p *PostgresClient) GetReport(ctx context.Context, id int64) (*Report, error) {
	var r Report
	err := p.pool.QueryRow(ctx, `
		SELECT id, usuario_id, equipo, equipo_id, descripcion, foto, created_at
		FROM reportes
		WHERE id = $1
	`, id).Scan(&r.ID, &r.UserID, &r.EquipmentName, &r.EquipmentID, &r.Description, &r.Photo, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewNotFoundError("reporte", id)
		}
		return nil, types.NewStorageError("get report", err)
	}
	r.HasPhoto = len(r.Photo) > 0
	return &r, nil
}

// ListReports returns reports newest first. Photos are not loaded.
func (p *PostgresClient) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, usuario_id, equipo, equipo_id, descripcion, (foto IS NOT NULL), created_at
		FROM reportes
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, types.NewStorageError("list reports", err)
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.EquipmentName, &r.EquipmentID,
			&r.Description, &r.HasPhoto, &r.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan report", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
