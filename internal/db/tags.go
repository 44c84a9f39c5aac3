package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"report-function-service/internal/models"
)

// GetTagsByTemplate loads a template's tag roster. Values are stored as
// text; location sets serialize as "|"-delimited strings.
func (d *DB) GetTagsByTemplate(ctx context.Context, templateID string) ([]models.Tag, error) {
	rows, err := d.Pool.Query(ctx, `
        SELECT id, template_id, name, type, value
        FROM tags
        WHERE template_id = $1
        ORDER BY id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for template %s: %w", templateID, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		var value *string
		if err := rows.Scan(&t.ID, &t.TemplateID, &t.Name, &t.Type, &value); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		if value != nil {
			t.Value = *value
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTagValue writes a derived value back onto one tag.
func (d *DB) UpdateTagValue(ctx context.Context, tagID string, value any) error {
	result, err := d.Pool.Exec(ctx, `UPDATE tags SET value = $1 WHERE id = $2`, SerializeValue(value), tagID)
	if err != nil {
		return fmt.Errorf("failed to update tag %s: %w", tagID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no tag updated for id %s", tagID)
	}
	return nil
}

// SerializeValue renders a tag value for text storage.
func SerializeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "|")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
