package sqlite

import (
	"context"
	"database/sql"

	"github.com/workhive/workhive/internal/models"
)

// UpsertPayloadSchema inserts or updates a payload schema by (name, version).
func (r *SQLiteRepo) UpsertPayloadSchema(ctx context.Context, name, version, schemaJSON string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO payload_schemas (name, version, schema_json, created, updated) VALUES (?, ?, ?, strftime('%s','now'), strftime('%s','now')) ON CONFLICT(name, version) DO UPDATE SET schema_json=excluded.schema_json, updated=strftime('%s','now')`, name, version, schemaJSON)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPayloadSchema returns the newest schema version for a name.
func (r *SQLiteRepo) GetPayloadSchema(ctx context.Context, name string) (*models.PayloadSchema, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, version, schema_json, created, updated FROM payload_schemas WHERE name = ? ORDER BY version DESC LIMIT 1`, name)
	var s models.PayloadSchema
	if err := row.Scan(&s.ID, &s.Name, &s.Version, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepo) ListPayloadSchemas(ctx context.Context) ([]models.PayloadSchema, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, version, schema_json, created, updated FROM payload_schemas ORDER BY name, version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayloadSchema
	for rows.Next() {
		var s models.PayloadSchema
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
