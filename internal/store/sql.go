package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

// SQLStore implements [ContactRepository] on top of a relational database
// with a raw_contacts table and a data table.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	qb      squirrel.StatementBuilderType
}

var _ ContactRepository = (*SQLStore)(nil)

// NewSQLStore wraps the database handle. The handle can be a real database
// for production use or a mock database within unit tests.
func NewSQLStore(db *sqlx.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		qb:      dialect.statementBuilder(),
	}
}

// List returns one contact per phone row, named after the first name row of
// the same raw contact.
func (s *SQLStore) List(ctx context.Context) ([]model.Contact, error) {
	firstName := squirrel.Expr(
		"COALESCE((SELECT n.data1 FROM data n WHERE n.raw_contact_id = p.raw_contact_id AND n.mimetype = ? ORDER BY n.id LIMIT 1), '')",
		MimeTypeName,
	)
	query, args, err := s.qb.
		Select("p.raw_contact_id AS id").
		Column(squirrel.Alias(firstName, "name")).
		Column("COALESCE(p.data1, '') AS number").
		From("data p").
		Where(squirrel.Eq{"p.mimetype": MimeTypePhone}).
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}

	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return []model.Contact{}, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	return contacts, nil
}

// Create performs the two-step write: the raw contact first, then its data
// rows. Without a raw contact id no data rows are written.
func (s *SQLStore) Create(ctx context.Context, name string, phone string) error {
	rawContactID, err := s.insertRawContact(ctx)
	if err != nil {
		return err
	}
	if err := s.insertDataRow(ctx, rawContactID, MimeTypeName, name, nil); err != nil {
		return err
	}
	return s.insertDataRow(ctx, rawContactID, MimeTypePhone, phone, PhoneTypeMobile)
}

// insertRawContact creates a raw contact that is not associated with any
// account and returns its id.
func (s *SQLStore) insertRawContact(ctx context.Context) (int64, error) {
	insert := s.qb.
		Insert("raw_contacts").
		Columns("account_type", "account_name").
		Values(squirrel.Expr("NULL"), squirrel.Expr("NULL"))

	var id int64
	if s.dialect == Postgres {
		query, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrStoreWrite, err)
		}
		if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("%w: insert raw contact: %w", ErrStoreWrite, err)
		}
	} else {
		query, args, err := insert.ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrStoreWrite, err)
		}
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("%w: insert raw contact: %w", ErrStoreWrite, err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("%w: raw contact id: %w", ErrStoreWrite, err)
		}
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: raw contact insert returned no id", ErrStoreWrite)
	}
	return id, nil
}

func (s *SQLStore) insertDataRow(ctx context.Context, rawContactID int64, mimetype string, data1 string, data2 any) error {
	query, args, err := s.qb.
		Insert("data").
		Columns("raw_contact_id", "mimetype", "data1", "data2").
		Values(rawContactID, mimetype, data1, data2).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert %s row: %w", ErrStoreWrite, mimetype, err)
	}
	return nil
}

// Update issues two separate writes without a transaction. If the second one
// fails, the contact keeps its new name and its old number.
func (s *SQLStore) Update(ctx context.Context, id int64, name string, phone string) error {
	if err := s.updateDataRows(ctx, id, MimeTypeName, name); err != nil {
		return err
	}
	return s.updateDataRows(ctx, id, MimeTypePhone, phone)
}

func (s *SQLStore) updateDataRows(ctx context.Context, id int64, mimetype string, data1 string) error {
	query, args, err := s.qb.
		Update("data").
		Set("data1", data1).
		Where(squirrel.Eq{"raw_contact_id": id}).
		Where(squirrel.Eq{"mimetype": mimetype}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: update %s rows: %w", ErrStoreWrite, mimetype, err)
	}
	return nil
}

// Delete removes the data rows and the raw contact in one transaction.
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	deleteData, dataArgs, err := s.qb.Delete("data").Where(squirrel.Eq{"raw_contact_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	deleteRaw, rawArgs, err := s.qb.Delete("raw_contacts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin delete: %w", ErrStoreWrite, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, deleteData, dataArgs...); err != nil {
		return fmt.Errorf("%w: delete data rows: %w", ErrStoreWrite, err)
	}
	if _, err := tx.ExecContext(ctx, deleteRaw, rawArgs...); err != nil {
		return fmt.Errorf("%w: delete raw contact: %w", ErrStoreWrite, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit delete: %w", ErrStoreWrite, err)
	}
	return nil
}
