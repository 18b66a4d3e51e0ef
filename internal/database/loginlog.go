package database

import (
	"stringvault/internal/model"
)

// LogLogin appends a row to the admin login log. The log is append-only;
// nothing in the application mutates or prunes it.
func (db *DB) LogLogin(username, ip string) error {
	_, err := db.conn.Exec(
		"INSERT INTO admin_log (username, ip_address) VALUES ($1, $2)",
		username, ip,
	)
	return err
}

func (db *DB) ListLoginLog(limit, offset int) ([]model.LoginLog, int, error) {
	var total int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM admin_log").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.conn.Query(
		`SELECT id, username, ip_address, logged_in_at
		 FROM admin_log ORDER BY logged_in_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.LoginLog
	for rows.Next() {
		var e model.LoginLog
		if err := rows.Scan(&e.ID, &e.Username, &e.IPAddress, &e.LoggedInAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
