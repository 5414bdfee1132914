package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

// createMockStore builds a store on a mock database handle and returns the
// mock object for defining our expected SQL calls.
func createMockStore(t *testing.T, dialect Dialect) (*SQLStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(sqlx.NewDb(db, dialect.driverName()), dialect), mock
}

// expectationsMet fails the test if the mock saw fewer statements than expected.
func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestList expects one contact per returned row, in row order.
func TestList(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	rows := mock.NewRows([]string{"id", "name", "number"}).
		AddRow(1, "Bob", "555-1111").
		AddRow(2, "Amy", "555-2222").
		AddRow(1, "Bob", "555-1112")
	mock.ExpectQuery("SELECT p.raw_contact_id AS id, \\(COALESCE\\(\\(SELECT n.data1 FROM data n WHERE .+ LIMIT 1\\), ''\\)\\) AS name, .+ FROM data p WHERE p.mimetype = \\? ORDER BY p.id").
		WithArgs(MimeTypeName, MimeTypePhone).
		WillReturnRows(rows)

	// Run test and compare results
	contacts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{
		{Id: 1, Name: "Bob", Number: "555-1111"},
		{Id: 2, Name: "Amy", Number: "555-2222"},
		{Id: 1, Name: "Bob", Number: "555-1112"},
	}, contacts)
	expectationsMet(t, mock)
}

// TestListQueryError expects that a failing query yields an empty list along
// with ErrStoreQuery.
func TestListQueryError(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT .+ FROM data p").
		WillReturnError(errors.New("connection refused"))

	// Run test and compare results
	contacts, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrStoreQuery)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
	expectationsMet(t, mock)
}

// TestCreate expects the raw contact insert followed by the name row and the
// mobile phone row that reference the new id.
func TestCreate(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectExec("INSERT INTO raw_contacts \\(account_type,account_name\\) VALUES \\(NULL,NULL\\)").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO data").
		WithArgs(int64(42), MimeTypeName, "Erika Mustermann", nil).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec("INSERT INTO data").
		WithArgs(int64(42), MimeTypePhone, "+49 0815 4711", PhoneTypeMobile).
		WillReturnResult(sqlmock.NewResult(101, 1))

	// Run test and compare results
	err := repo.Create(context.Background(), "Erika Mustermann", "+49 0815 4711")
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

// TestCreateWithoutRawContactID expects that no data rows are written when the
// raw contact insert returns no id.
func TestCreateWithoutRawContactID(t *testing.T) {
	results := map[string]driver.Result{
		"zero id":  sqlmock.NewResult(0, 1),
		"id error": sqlmock.NewErrorResult(errors.New("no id")),
	}
	for name, result := range results {
		t.Run(name, func(t *testing.T) {
			repo, mock := createMockStore(t, MySQL)

			// Define expectations on SQL statements
			mock.ExpectExec("INSERT INTO raw_contacts").WillReturnResult(result)

			// Run test and compare results
			err := repo.Create(context.Background(), "Erika Mustermann", "+49 0815 4711")
			assert.ErrorIs(t, err, ErrStoreWrite)
			expectationsMet(t, mock)
		})
	}
}

// TestCreateRawContactInsertFails expects ErrStoreWrite and no data rows.
func TestCreateRawContactInsertFails(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectExec("INSERT INTO raw_contacts").WillReturnError(errors.New("disk full"))

	// Run test and compare results
	err := repo.Create(context.Background(), "Erika Mustermann", "+49 0815 4711")
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.True(t, strings.Contains(err.Error(), "disk full"))
	expectationsMet(t, mock)
}

// TestCreatePostgres expects that the raw contact id is read through a
// RETURNING clause.
func TestCreatePostgres(t *testing.T) {
	repo, mock := createMockStore(t, Postgres)

	// Define expectations on SQL statements
	mock.ExpectQuery("INSERT INTO raw_contacts .+ RETURNING id").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO data .+ VALUES \\(\\$1,\\$2,\\$3,\\$4\\)").
		WithArgs(int64(5), MimeTypeName, "Amy", nil).
		WillReturnResult(sqlmock.NewResult(-1, 1))
	mock.ExpectExec("INSERT INTO data").
		WithArgs(int64(5), MimeTypePhone, "555-2222", PhoneTypeMobile).
		WillReturnResult(sqlmock.NewResult(-1, 1))

	// Run test and compare results
	err := repo.Create(context.Background(), "Amy", "555-2222")
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

// TestUpdate expects two independent conditional updates, one per mimetype.
func TestUpdate(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectExec("UPDATE data SET data1 = \\? WHERE raw_contact_id = \\? AND mimetype = \\?").
		WithArgs("Bobby", int64(1), MimeTypeName).
		WillReturnResult(sqlmock.NewResult(-1, 1))
	mock.ExpectExec("UPDATE data SET data1 = \\? WHERE raw_contact_id = \\? AND mimetype = \\?").
		WithArgs("555-9999", int64(1), MimeTypePhone).
		WillReturnResult(sqlmock.NewResult(-1, 1))

	// Run test and compare results
	err := repo.Update(context.Background(), 1, "Bobby", "555-9999")
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

// TestUpdateNoMatchingRows expects that updates affecting zero rows are not
// an error.
func TestUpdateNoMatchingRows(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectExec("UPDATE data").
		WithArgs("Bobby", int64(9999), MimeTypeName).
		WillReturnResult(sqlmock.NewResult(-1, 0))
	mock.ExpectExec("UPDATE data").
		WithArgs("555-9999", int64(9999), MimeTypePhone).
		WillReturnResult(sqlmock.NewResult(-1, 0))

	// Run test and compare results
	err := repo.Update(context.Background(), 9999, "Bobby", "555-9999")
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

// TestUpdatePartialFailure expects that a failing phone update does not undo
// the name update that already happened.
func TestUpdatePartialFailure(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectExec("UPDATE data").
		WithArgs("Bobby", int64(1), MimeTypeName).
		WillReturnResult(sqlmock.NewResult(-1, 1))
	mock.ExpectExec("UPDATE data").
		WithArgs("555-9999", int64(1), MimeTypePhone).
		WillReturnError(errors.New("lock wait timeout"))

	// Run test and compare results
	err := repo.Update(context.Background(), 1, "Bobby", "555-9999")
	assert.ErrorIs(t, err, ErrStoreWrite)
	expectationsMet(t, mock)
}

// TestDelete expects the data rows and the raw contact to be deleted in one
// transaction.
func TestDelete(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM data WHERE raw_contact_id = \\?").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(-1, 2))
	mock.ExpectExec("DELETE FROM raw_contacts WHERE id = \\?").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(-1, 1))
	mock.ExpectCommit()

	// Run test and compare results
	err := repo.Delete(context.Background(), 42)
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

// TestDeleteUnknownID expects that deleting a contact that does not exist is
// not an error.
func TestDeleteUnknownID(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM data").
		WithArgs(int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))
	mock.ExpectExec("DELETE FROM raw_contacts").
		WithArgs(int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))
	mock.ExpectCommit()

	// Run test and compare results
	err := repo.Delete(context.Background(), 9999)
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

// TestDeleteRollback expects a rollback when the raw contact cannot be deleted.
func TestDeleteRollback(t *testing.T) {
	repo, mock := createMockStore(t, MySQL)

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM data").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(-1, 2))
	mock.ExpectExec("DELETE FROM raw_contacts").
		WithArgs(int64(42)).
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	// Run test and compare results
	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStoreWrite)
	expectationsMet(t, mock)
}

// TestExecScript expects one statement per ';' and skipped comment lines.
func TestExecScript(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Define expectations on SQL statements
	mock.ExpectExec("CREATE TABLE a \\( id INT \\);").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE b \\(id INT\\);").WillReturnResult(sqlmock.NewResult(0, 0))

	// Run test and compare results
	script := "-- first table\nCREATE TABLE a (\nid INT\n);\n\nCREATE TABLE b (id INT);\n"
	err = ExecScript(context.Background(), sqlx.NewDb(db, "mysql"), strings.NewReader(script))
	assert.NoError(t, err)
	expectationsMet(t, mock)
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"mysql":      MySQL,
		"MariaDB":    MySQL,
		"postgres":   Postgres,
		"postgresql": Postgres,
		"pgx":        Postgres,
		"sqlite":     SQLite,
		"sqlite3":    SQLite,
	}
	for name, expected := range cases {
		dialect, err := ParseDialect(name)
		assert.NoError(t, err, name)
		assert.Equal(t, expected, dialect, name)
	}
	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}
