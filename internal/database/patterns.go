package database

import (
	"context"
	"database/sql"
	"strings"

	"stringvault/internal/model"
)

// FindPatternByInput looks up a pattern by its case-normalized input.
// Returns nil without error when no pattern matches.
func (db *DB) FindPatternByInput(ctx context.Context, input string) (*model.Pattern, error) {
	p := &model.Pattern{}
	var createdBy sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, input_pattern, output_pattern, created_by, created_at FROM string_pair WHERE input_pattern = $1",
		strings.ToLower(input),
	).Scan(&p.ID, &p.InputPattern, &p.OutputPattern, &createdBy, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedBy = createdBy.Int64
	return p, nil
}

func (db *DB) ListPatterns() ([]model.Pattern, error) {
	rows, err := db.conn.Query(
		"SELECT id, input_pattern, output_pattern, created_by, created_at FROM string_pair ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []model.Pattern
	for rows.Next() {
		var p model.Pattern
		var createdBy sql.NullInt64
		if err := rows.Scan(&p.ID, &p.InputPattern, &p.OutputPattern, &createdBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedBy = createdBy.Int64
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// UpsertPattern inserts a new pattern attributed to the actor, or replaces
// the output of an existing one in place (same identity, same created_at).
// Returns true when an existing pattern was updated.
func (db *DB) UpsertPattern(ctx context.Context, inputPattern, outputPattern string, actorID int64) (bool, error) {
	inputPattern = strings.ToLower(inputPattern)

	res, err := db.conn.ExecContext(ctx,
		"UPDATE string_pair SET output_pattern = $1 WHERE input_pattern = $2",
		outputPattern, inputPattern,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	// created_by is nullable; an unknown actor becomes NULL rather than a
	// dangling reference.
	createdBy := sql.NullInt64{Int64: actorID, Valid: actorID > 0}
	_, err = db.conn.ExecContext(ctx,
		"INSERT INTO string_pair (input_pattern, output_pattern, created_by) VALUES ($1, $2, $3)",
		inputPattern, outputPattern, createdBy,
	)
	return false, err
}

func (db *DB) DeletePattern(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM string_pair WHERE id = $1", id)
	return err
}
