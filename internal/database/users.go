package database

import (
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"stringvault/internal/model"
)

func (db *DB) GetUserByUsername(username string) (*model.User, error) {
	u := &model.User{}
	err := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_admin, created_at FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &u.PassHash, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *DB) ListUsers() ([]model.User, error) {
	rows, err := db.conn.Query(
		"SELECT id, username, pass_hash, is_admin, created_at FROM users ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PassHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (db *DB) CreateUser(username, password string, isAdmin bool) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.conn.QueryRow(
		"INSERT INTO users (username, pass_hash, is_admin) VALUES ($1, $2, $3) RETURNING id",
		username, string(hash), isAdmin,
	).Scan(&id)
	return id, err
}

func (db *DB) UpdateUserPassword(username, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec("UPDATE users SET pass_hash = $1 WHERE username = $2",
		string(hash), username)
	return err
}

func (db *DB) DeleteUser(username string) error {
	_, err := db.conn.Exec("DELETE FROM users WHERE username = $1", username)
	return err
}

// AuthenticateUser returns the user when the credentials verify, nil when
// they do not. An error is only returned on store failure.
func (db *DB) AuthenticateUser(username, password string) (*model.User, error) {
	u, err := db.GetUserByUsername(username)
	if err != nil || u == nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)); err != nil {
		return nil, nil
	}
	return u, nil
}

// EnsureBootstrapAdmin seeds the initial admin account and a sample pattern
// when the users table is empty. A blank password skips seeding entirely.
func (db *DB) EnsureBootstrapAdmin(username, password string) error {
	hasUsers, err := db.HasUsers()
	if err != nil {
		return err
	}
	if hasUsers {
		return nil
	}
	if password == "" {
		log.Println("No users exist and bootstrap.admin_password is not set; skipping admin bootstrap")
		return nil
	}
	id, err := db.CreateUser(username, password, true)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO string_pair (input_pattern, output_pattern, created_by) VALUES ($1, $2, $3)",
		"hello", "OLLEH", id,
	)
	if err != nil {
		return fmt.Errorf("failed to seed sample pattern: %w", err)
	}
	log.Printf("Bootstrapped admin user %q with sample pattern", username)
	return nil
}
