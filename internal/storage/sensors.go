package storage

import (
	"context"

	"github.com/hospicore/biomedtrack/internal/types"
)

// InsertSensorReading appends one reading. The timestamp defaults to
// insertion time at the database.
func (p *PostgresClient) InsertSensorReading(ctx context.Context, r SensorReading) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO sensores (device, temperatura, humedad, ambtemp, objtemp, peso)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.Device, r.Temperature, r.Humidity, r.AmbientTemp, r.ObjectTemp, r.Weight).Scan(&id)
	if err != nil {
		return 0, types.NewStorageError("insert sensor reading", err)
	}
	return id, nil
}

// LatestSensorReadings returns up to limit rows, newest first.
func (p *PostgresClient) LatestSensorReadings(ctx context.Context, limit int) ([]SensorReading, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, device, temperatura, humedad, ambtemp, objtemp, peso, created_at
		FROM sensores
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, types.NewStorageError("latest sensor readings", err)
	}
	defer rows.Close()

	readings := make([]SensorReading, 0, limit)
	for rows.Next() {
		var r SensorReading
		if err := rows.Scan(&r.ID, &r.Device, &r.Temperature, &r.Humidity,
			&r.AmbientTemp, &r.ObjectTemp, &r.Weight, &r.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan sensor reading", err)
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// SensorReadingsAfter returns readings with id greater than afterID,
// oldest first. Used by the live feed poller.
func (p *PostgresClient) SensorReadingsAfter(ctx context.Context, afterID int64) ([]SensorReading, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, device, temperatura, humedad, ambtemp, objtemp, peso, created_at
		FROM sensores
		WHERE id > $1
		ORDER BY id
	`, afterID)
	if err != nil {
		return nil, types.NewStorageError("sensor readings after", err)
	}
	defer rows.Close()

	readings := make([]SensorReading, 0)
	for rows.Next() {
		var r SensorReading
		if err := rows.Scan(&r.ID, &r.Device, &r.Temperature, &r.Humidity,
			&r.AmbientTemp, &r.ObjectTemp, &r.Weight, &r.CreatedAt); err != nil {
			return nil, types.NewStorageError("scan sensor reading", err)
		}
		readings = append(readings, r)
	}
	return readings, nil
}
