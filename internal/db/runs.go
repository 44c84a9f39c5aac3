package db

import (
	"context"
	"fmt"

	"report-function-service/internal/models"
)

// InsertRun appends one evaluation attempt to the run history.
func (d *DB) InsertRun(ctx context.Context, r models.RunRecord) error {
	query := `
        INSERT INTO function_runs (id, tag_id, task_id, status, message, detail, result, ran_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := d.Pool.Exec(ctx, query, r.ID, r.TagID, r.TaskID, r.Status, r.Message, r.Detail, r.Result, r.RanAt)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// GetRunsByTag returns a tag's evaluation history, newest first.
func (d *DB) GetRunsByTag(ctx context.Context, tagID string, limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.Pool.Query(ctx, `
        SELECT id, tag_id, task_id, status, message, detail, result, ran_at
        FROM function_runs
        WHERE tag_id = $1
        ORDER BY ran_at DESC
        LIMIT $2`, tagID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs for tag %s: %w", tagID, err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var r models.RunRecord
		if err := rows.Scan(&r.ID, &r.TagID, &r.TaskID, &r.Status, &r.Message, &r.Detail, &r.Result, &r.RanAt); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
