package database

import (
	"context"
	"database/sql"

	"stringvault/internal/model"
)

func (db *DB) GetEntry(ctx context.Context, id int64) (*model.Entry, error) {
	e := &model.Entry{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, input_string, transformed_string, ip_address, accessed, reaccessible, created_at
		 FROM string_entry WHERE id = $1`, id,
	).Scan(&e.ID, &e.InputString, &e.TransformedString, &e.IPAddress, &e.Accessed, &e.Reaccessible, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindAccessedEntry returns the revealed entry for (ip, input), or nil when
// the pair has never been revealed. At most one such row can exist.
func (db *DB) FindAccessedEntry(ctx context.Context, ip, input string) (*model.Entry, error) {
	e := &model.Entry{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, input_string, transformed_string, ip_address, accessed, reaccessible, created_at
		 FROM string_entry WHERE ip_address = $1 AND input_string = $2 AND accessed = TRUE`,
		ip, input,
	).Scan(&e.ID, &e.InputString, &e.TransformedString, &e.IPAddress, &e.Accessed, &e.Reaccessible, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (db *DB) CreateEntry(ctx context.Context, input, transformed, ip string) (int64, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO string_entry (input_string, transformed_string, ip_address, accessed, reaccessible)
		 VALUES ($1, $2, $3, FALSE, FALSE) RETURNING id`,
		input, transformed, ip,
	).Scan(&id)
	return id, err
}

// ResetEntry consumes a reaccess grant: both flags back to false so the next
// view proceeds.
func (db *DB) ResetEntry(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE string_entry SET accessed = FALSE, reaccessible = FALSE WHERE id = $1", id)
	return err
}

// MarkAccessed flips an entry to revealed, but only if it has not been
// revealed already. The conditional update serializes concurrent views:
// exactly one caller observes true, the rest must treat the entry as locked.
func (db *DB) MarkAccessed(ctx context.Context, id int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE string_entry SET accessed = TRUE, reaccessible = FALSE WHERE id = $1 AND accessed = FALSE", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ToggleReaccess flips the reaccess grant. Turning it on also resets the
// accessed flag so the entry can be submitted and viewed again; turning it
// off leaves the accessed state alone. Returns the new grant state.
func (db *DB) ToggleReaccess(ctx context.Context, id int64) (bool, error) {
	var reaccessible bool
	err := db.conn.QueryRowContext(ctx,
		`UPDATE string_entry
		 SET reaccessible = NOT reaccessible,
		     accessed = CASE WHEN reaccessible THEN accessed ELSE FALSE END
		 WHERE id = $1
		 RETURNING reaccessible`, id,
	).Scan(&reaccessible)
	if err == sql.ErrNoRows {
		return false, sql.ErrNoRows
	}
	return reaccessible, err
}

func (db *DB) ListEntries() ([]model.Entry, error) {
	rows, err := db.conn.Query(
		`SELECT id, input_string, transformed_string, ip_address, accessed, reaccessible, created_at
		 FROM string_entry ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.InputString, &e.TransformedString, &e.IPAddress, &e.Accessed, &e.Reaccessible, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (db *DB) DeleteEntry(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM string_entry WHERE id = $1", id)
	return err
}

// ClearEntries deletes every access record and reports how many went away.
func (db *DB) ClearEntries(ctx context.Context) (int64, error) {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM string_entry")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
