package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL flavour of the database that backs the contact store.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name to a dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", name)
}

// driverName is the name under which the database/sql driver is registered.
func (d Dialect) driverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

// statementBuilder returns a squirrel builder using the placeholders of the dialect.
func (d Dialect) statementBuilder() squirrel.StatementBuilderType {
	if d == Postgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Open connects to the database with the given data source name and checks
// that it is reachable.
func Open(d Dialect, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", d, err)
	}
	if d == SQLite {
		// A single connection serializes writes and keeps ":memory:" databases alive.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Connect parses the driver name and opens the database. A SQLite database is
// migrated right away since it usually starts out as an empty file.
func Connect(ctx context.Context, driver string, dsn string) (*sqlx.DB, Dialect, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, "", err
	}
	db, err := Open(dialect, dsn)
	if err != nil {
		return nil, "", err
	}
	if dialect == SQLite {
		if err := Migrate(ctx, db, dialect); err != nil {
			db.Close()
			return nil, "", err
		}
	}
	return db, dialect, nil
}
