package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newDBWithMock(t *testing.T) (*DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewWithConn(conn), mock, conn
}

func TestMarkAccessed_Fresh(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^UPDATE\s+string_entry\s+SET\s+accessed\s*=\s*TRUE,\s*reaccessible\s*=\s*FALSE\s+WHERE\s+id\s*=\s*\$1\s+AND\s+accessed\s*=\s*FALSE$`

	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := db.MarkAccessed(context.Background(), 7)
	if err != nil {
		t.Fatalf("MarkAccessed error: %v", err)
	}
	if !ok {
		t.Fatal("expected conditional update to succeed")
	}
}

func TestMarkAccessed_AlreadyRevealed(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^UPDATE\s+string_entry\s+SET\s+accessed\s*=\s*TRUE,\s*reaccessible\s*=\s*FALSE\s+WHERE\s+id\s*=\s*\$1\s+AND\s+accessed\s*=\s*FALSE$`

	// Zero rows: someone else won the race or the entry was already revealed
	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := db.MarkAccessed(context.Background(), 7)
	if err != nil {
		t.Fatalf("MarkAccessed error: %v", err)
	}
	if ok {
		t.Fatal("expected conditional update to report zero rows")
	}
}

func TestFindAccessedEntry_None(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^SELECT\s+.+FROM\s+string_entry\s+WHERE\s+ip_address\s*=\s*\$1\s+AND\s+input_string\s*=\s*\$2\s+AND\s+accessed\s*=\s*TRUE$`

	mock.ExpectQuery(q).WithArgs("1.2.3.4", "hello").WillReturnError(sql.ErrNoRows)

	e, err := db.FindAccessedEntry(context.Background(), "1.2.3.4", "hello")
	if err != nil {
		t.Fatalf("FindAccessedEntry error: %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil entry, got %+v", e)
	}
}

func TestFindAccessedEntry_Found(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^SELECT\s+.+FROM\s+string_entry\s+WHERE\s+ip_address\s*=\s*\$1`

	rows := sqlmock.NewRows([]string{"id", "input_string", "transformed_string", "ip_address", "accessed", "reaccessible", "created_at"}).
		AddRow(int64(3), "hello", "OLLEH", "1.2.3.4", true, true, time.Now())
	mock.ExpectQuery(q).WithArgs("1.2.3.4", "hello").WillReturnRows(rows)

	e, err := db.FindAccessedEntry(context.Background(), "1.2.3.4", "hello")
	if err != nil {
		t.Fatalf("FindAccessedEntry error: %v", err)
	}
	if e == nil || e.ID != 3 || !e.Accessed || !e.Reaccessible {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestCreateEntry(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^INSERT\s+INTO\s+string_entry\s+\(input_string,\s*transformed_string,\s*ip_address,\s*accessed,\s*reaccessible\)\s+VALUES\s+\(\$1,\s*\$2,\s*\$3,\s*FALSE,\s*FALSE\)\s+RETURNING\s+id$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(11))
	mock.ExpectQuery(q).WithArgs("hello", "OLLEH", "1.2.3.4").WillReturnRows(rows)

	id, err := db.CreateEntry(context.Background(), "hello", "OLLEH", "1.2.3.4")
	if err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}
	if id != 11 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestToggleReaccess_On(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^UPDATE\s+string_entry\s+SET\s+reaccessible\s*=\s*NOT\s+reaccessible,`

	rows := sqlmock.NewRows([]string{"reaccessible"}).AddRow(true)
	mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnRows(rows)

	on, err := db.ToggleReaccess(context.Background(), 5)
	if err != nil {
		t.Fatalf("ToggleReaccess error: %v", err)
	}
	if !on {
		t.Fatal("expected grant to be enabled")
	}
}

func TestToggleReaccess_Missing(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	q := `(?s)^UPDATE\s+string_entry\s+SET\s+reaccessible\s*=\s*NOT\s+reaccessible,`

	mock.ExpectQuery(q).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := db.ToggleReaccess(context.Background(), 99)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
}

func TestClearEntries(t *testing.T) {
	db, mock, conn := newDBWithMock(t)
	defer conn.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+string_entry$`).WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := db.ClearEntries(context.Background())
	if err != nil {
		t.Fatalf("ClearEntries error: %v", err)
	}
	if count != 4 {
		t.Fatalf("unexpected count: %d", count)
	}
}
