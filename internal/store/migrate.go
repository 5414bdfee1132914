package store

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

//go:embed schema/*.sql
var schemas embed.FS

// DefaultContacts is the initial data entered by [Seed].
var DefaultContacts = []model.Contact{
	{Name: "Dirk Krummacker", Number: "+420 123 456 789"},
	{Name: "Pavla Krummackerova", Number: "+420 023 454 244"},
	{Name: "Adam Krummacker", Number: "+420 333 555 777"},
	{Name: "David Krummacker", Number: "+420 333 555 777"},
}

// Migrate creates the tables of the contact store if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB, dialect Dialect) error {
	file, err := schemas.Open("schema/" + string(dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for dialect %s: %w", dialect, err)
	}
	defer file.Close()
	return ExecScript(ctx, db, file)
}

// ExecScript executes the SQL statements read from r one by one. A statement
// ends on the line that contains a ';'. Lines starting with "--" are skipped.
func ExecScript(ctx context.Context, db *sqlx.DB, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := db.ExecContext(ctx, builder.String()); err != nil {
				return fmt.Errorf("execute %q: %w", strings.TrimSpace(builder.String()), err)
			}
			builder = strings.Builder{}
		}
	}
	return scanner.Err()
}

// Seed enters initial contacts into the store. A contact whose name is
// already present is not added again.
func Seed(ctx context.Context, repo ContactRepository, contacts []model.Contact, logger *zap.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, contact := range existing {
		names[contact.Name] = true
	}
	for _, contact := range contacts {
		if names[contact.Name] {
			logger.Debug("contact already present", zap.String("name", contact.Name))
			continue
		}
		if err := repo.Create(ctx, contact.Name, contact.Number); err != nil {
			return err
		}
		names[contact.Name] = true
		logger.Info("seeded contact", zap.String("name", contact.Name))
	}
	return nil
}
