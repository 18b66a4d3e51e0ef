package auth

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"stringvault/internal/database"
)

const (
	settingsQuery = `(?s)^SELECT\s+value\s+FROM\s+settings\s+WHERE\s+key\s*=\s*\$1$`
	sessionQuery  = `(?s)^SELECT\s+username,\s*csrf_token,\s*expires_at\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1$`
	userQuery     = `(?s)^SELECT\s+id,\s*username,\s*pass_hash,\s*is_admin,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
)

func newSessionManagerWithMock(t *testing.T) (*SessionManager, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.ExpectQuery(settingsQuery).WithArgs("session_secret").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("test-secret"))
	sm, err := NewSessionManager(database.NewWithConn(conn))
	if err != nil {
		t.Fatalf("NewSessionManager error: %v", err)
	}
	return sm, mock, conn
}

func expectSession(mock sqlmock.Sqlmock, token, username string) {
	mock.ExpectQuery(sessionQuery).WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"username", "csrf_token", "expires_at"}).
			AddRow(username, "csrf-tok", time.Now().Add(time.Hour)))
}

func expectUser(mock sqlmock.Sqlmock, username string, isAdmin bool) {
	mock.ExpectQuery(userQuery).WithArgs(username).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "pass_hash", "is_admin", "created_at"}).
			AddRow(int64(1), username, "x", isAdmin, time.Now()))
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	sm, mock, conn := newSessionManagerWithMock(t)
	defer conn.Close()

	expectSession(mock, "tok", "bob")
	expectUser(mock, "bob", false)

	called := false
	gate := sm.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("POST", "/admin/entries/clear", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "tok"})
	rr := httptest.NewRecorder()
	gate(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "administrator access required") {
		t.Fatalf("expected visible error, got %q", rr.Body.String())
	}
	if called {
		t.Fatal("handler must not run for a non-admin user")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	sm, mock, conn := newSessionManagerWithMock(t)
	defer conn.Close()

	expectSession(mock, "tok", "alice")
	expectUser(mock, "alice", true)

	called := false
	gate := sm.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("POST", "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "tok"})
	rr := httptest.NewRecorder()
	gate(rr, req)

	if !called {
		t.Fatal("handler should run for an admin user")
	}
}

func TestRequireAdmin_UnauthenticatedRedirects(t *testing.T) {
	sm, _, conn := newSessionManagerWithMock(t)
	defer conn.Close()

	called := false
	gate := sm.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("POST", "/admin/users", nil)
	rr := httptest.NewRecorder()
	gate(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/admin/login" {
		t.Fatalf("got redirect to %q, want /admin/login", loc)
	}
	if called {
		t.Fatal("handler must not run without a session")
	}
}
