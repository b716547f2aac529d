package storage

import (
	"context"

	"github.com/hospicore/biomedtrack/internal/types"
)

func (p *PostgresClient) InsertMaintenanceRecord(ctx context.Context, m MaintenanceRecord) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO mantenimientos (equipo_id, tecnico_id, descripcion, repuestos, observaciones, tipo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.EquipmentID, m.TechnicianID, m.Description, m.Parts, m.Observations, m.Type).Scan(&id)
	if err != nil {
		return 0, types.NewStorageError("insert maintenance record", err)
	}
	return id, nil
}

func (p *PostgresClient) ListMaintenanceRecords(ctx context.Context, equipmentID int64) ([]MaintenanceRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, equipo_id, tecnico_id, descripcion, repuestos, observaciones, tipo, created_at
		FROM mantenimientos
		WHERE equipo_id = $1
		ORDER BY created_at DESC, id DESC
	`, equipmentID)
	if err != nil {
		return nil, types.NewStorageError("list maintenance records", err)
	}
	defer rows.Close()

	records := make([]MaintenanceRecord, 0)
	for rows.Next() {
		var m MaintenanceRecord
		if err := rows.Scan(&m.ID, &m.EquipmentID, &m.TechnicianID, &m.Description,
			&m.Parts, &m.Observations, &m.Type, &m.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan maintenance record", err)
		}
		records = append(records, m)
	}
	return records, nil
}
