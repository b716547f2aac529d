package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/jackc/pgx/v5"
)

// SaveOrUpdateEquipment upserts an equipment row keyed on its serial.
// Re-registration through the intake form replaces the previous data.
func (p *PostgresClient) SaveOrUpdateEquipment(ctx context.Context, e Equipment) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, types.NewStorageError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	accJSON, err := json.Marshal(e.Accessories)
	if err != nil {
		return 0, types.NewStorageError("marshal accessories", err)
	}
	techJSON, err := json.Marshal(e.TechnicalData)
	if err != nil {
		return 0, types.NewStorageError("marshal technical data", err)
	}

	var equipmentID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO equipos (nombre, marca, modelo, serial, area_servicio, ubicacion, imagen, accesorios, datos_tecnicos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (serial)
		DO UPDATE SET
			nombre = EXCLUDED.nombre,
			marca = EXCLUDED.marca,
			modelo = EXCLUDED.modelo,
			area_servicio = EXCLUDED.area_servicio,
			ubicacion = EXCLUDED.ubicacion,
			imagen = EXCLUDED.imagen,
			accesorios = EXCLUDED.accesorios,
			datos_tecnicos = EXCLUDED.datos_tecnicos,
			updated_at = NOW()
		RETURNING id
	`, e.Name, e.Brand, e.Model, e.Serial, e.ServiceArea, e.Location, e.Image, accJSON, techJSON).Scan(&equipmentID)
	if err != nil {
		return 0, types.NewStorageError("upsert equipment", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, types.NewStorageError("commit transaction", err)
	}

	return equipmentID, nil
}

func (p *PostgresClient) GetEquipment(ctx context.Context, id int64) (*Equipment, error) {
	var e Equipment
	var accJSON, techJSON []byte
	err := p.pool.QueryRow(ctx, `
		SELECT id, nombre, marca, modelo, serial, area_servicio, ubicacion, imagen,
		       accesorios, datos_tecnicos, created_at, updated_at
		FROM equipos
		WHERE id = $1
	`, id).Scan(
		&e.ID, &e.Name, &e.Brand, &e.Model, &e.Serial, &e.ServiceArea, &e.Location,
		&e.Image, &accJSON, &techJSON, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewNotFoundError("equipo", id)
		}
		return nil, types.NewStorageError("get equipment", err)
	}

	if err := json.Unmarshal(accJSON, &e.Accessories); err != nil {
		return nil, types.NewStorageError("unmarshal accessories", err)
	}
	if err := json.Unmarshal(techJSON, &e.TechnicalData); err != nil {
		return nil, types.NewStorageError("unmarshal technical data", err)
	}

	return &e, nil
}

// FindEquipmentIDByName resolves an equipment display name to an id.
// Returns (0, nil) when no equipment matches; reports chose the name
// reference and the lookup is best effort.
func (p *PostgresClient) FindEquipmentIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		SELECT id FROM equipos WHERE nombre = $1 ORDER BY id LIMIT 1
	`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, types.NewStorageError("find equipment by name", err)
	}
	return id, nil
}

func (p *PostgresClient) ListEquipment(ctx context.Context) ([]Equipment, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, nombre, marca, modelo, serial, area_servicio, ubicacion,
		       accesorios, datos_tecnicos, created_at, updated_at
		FROM equipos
		ORDER BY nombre, id
	`)
	if err != nil {
		return nil, types.NewStorageError("list equipment", err)
	}
	defer rows.Close()

	equipment := make([]Equipment, 0)
	for rows.Next() {
		var e Equipment
		var accJSON, techJSON []byte
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Brand, &e.Model, &e.Serial, &e.ServiceArea, &e.Location,
			&accJSON, &techJSON, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, types.NewStorageError("scan equipment", err)
		}
		if err := json.Unmarshal(accJSON, &e.Accessories); err != nil {
			return nil, types.NewStorageError("unmarshal accessories", err)
		}
		if err := json.Unmarshal(techJSON, &e.TechnicalData); err != nil {
			return nil, types.NewStorageError("unmarshal technical data", err)
		}
		equipment = append(equipment, e)
	}
	return equipment, nil
}
