package database

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

const userQuery = `(?s)^SELECT\s+id,\s*username,\s*pass_hash,\s*is_admin,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`

func userRow(t *testing.T, username, password string, isAdmin bool) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "username", "pass_hash", "is_admin", "created_at"}).
		AddRow(int64(1), username, string(hash), isAdmin, time.Now())
}

func TestAuthenticateUser_Success(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	mock.ExpectQuery(userQuery).WithArgs("alice").WillReturnRows(userRow(t, "alice", "s3cret", true))

	u, err := db.AuthenticateUser("alice", "s3cret")
	if err != nil {
		t.Fatalf("AuthenticateUser error: %v", err)
	}
	if u == nil || u.Username != "alice" || !u.IsAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAuthenticateUser_WrongPassword(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	mock.ExpectQuery(userQuery).WithArgs("alice").WillReturnRows(userRow(t, "alice", "s3cret", false))

	u, err := db.AuthenticateUser("alice", "wrong")
	if err != nil {
		t.Fatalf("AuthenticateUser error: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user for bad password, got %+v", u)
	}
}

func TestAuthenticateUser_UnknownUser(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	mock.ExpectQuery(userQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	u, err := db.AuthenticateUser("ghost", "whatever")
	if err != nil {
		t.Fatalf("AuthenticateUser error: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
}

func TestGetUserByUsername_ScanError(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	mock.ExpectQuery(userQuery).WithArgs("alice").WillReturnError(errors.New("connection reset"))

	u, err := db.GetUserByUsername("alice")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if u != nil {
		t.Fatalf("expected nil user on store failure, got %+v", u)
	}
}

func TestCreateUser(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s+\(username,\s*pass_hash,\s*is_admin\)\s+VALUES\s+\(\$1,\s*\$2,\s*\$3\)\s+RETURNING\s+id$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(5))
	mock.ExpectQuery(q).WithArgs("bob", sqlmock.AnyArg(), false).WillReturnRows(rows)

	id, err := db.CreateUser("bob", "password1", false)
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if id != 5 {
		t.Fatalf("unexpected id: %d", id)
	}
}
