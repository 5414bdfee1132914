package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/config"
	"gitlab.com/dirk.krummacker/contact-store/internal/logging"
	"gitlab.com/dirk.krummacker/contact-store/internal/store"
)

var (
	migrationFile string
	migrationSeed bool
)

// Usage example on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go --seed
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go --file=contacts.sql
var rootCmd = &cobra.Command{
	Use:          "migration",
	Short:        "Create the contact store tables and optionally enter initial contacts",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runMigration,
}

func init() {
	rootCmd.Flags().StringVar(&migrationFile, "file", "", "SQL file to execute instead of the built-in schema")
	rootCmd.Flags().BoolVar(&migrationSeed, "seed", false, "Enter the default contacts if they are missing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // nothing left to report to

	db, dialect, err := store.Connect(ctx, cfg.Database.Driver, cfg.Database.DataSourceName())
	if err != nil {
		return err
	}
	defer db.Close()

	if migrationFile != "" {
		readFile, err := os.Open(migrationFile) // nosemgrep
		if err != nil {
			return err
		}
		defer readFile.Close()
		if err := store.ExecScript(ctx, db, readFile); err != nil {
			return fmt.Errorf("run %s: %w", migrationFile, err)
		}
		logger.Info("executed sql file", zap.String("file", migrationFile))
	} else {
		if err := store.Migrate(ctx, db, dialect); err != nil {
			return err
		}
		logger.Info("schema is up to date", zap.String("dialect", string(dialect)))
	}

	if migrationSeed {
		return store.Seed(ctx, store.NewSQLStore(db, dialect), store.DefaultContacts, logger)
	}
	return nil
}
