package db

import (
	"context"
	"fmt"
	"time"

	"report-function-service/internal/models"
)

// QueryReadings returns all readings for a task whose timestamp falls in
// [start, end], both endpoints inclusive. An empty location list skips the
// device filter (power/rate functions query without one).
func (d *DB) QueryReadings(ctx context.Context, taskID string, start, end time.Time, locations []string) ([]models.Reading, error) {
	query := `
        SELECT task_id, device_id, timestamp, temperature, humidity
        FROM readings
        WHERE task_id = $1 AND timestamp BETWEEN $2 AND $3`
	args := []any{taskID, start, end}
	if len(locations) > 0 {
		query += ` AND device_id = ANY($4)`
		args = append(args, locations)
	}
	query += ` ORDER BY timestamp`

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.TaskID, &r.DeviceID, &r.Timestamp, &r.Temperature, &r.Humidity); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// InsertReading stores one ingested sensor sample.
func (d *DB) InsertReading(ctx context.Context, r models.Reading) error {
	query := `
        INSERT INTO readings (task_id, device_id, timestamp, temperature, humidity)
        VALUES ($1, $2, $3, $4, $5)`
	_, err := d.Pool.Exec(ctx, query, r.TaskID, r.DeviceID, r.Timestamp, r.Temperature, r.Humidity)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}
