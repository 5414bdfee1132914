package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/config"
	"gitlab.com/dirk.krummacker/contact-store/internal/gateway"
	"gitlab.com/dirk.krummacker/contact-store/internal/logging"
	"gitlab.com/dirk.krummacker/contact-store/internal/service"
	"gitlab.com/dirk.krummacker/contact-store/internal/store"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > CONTACTS_DATABASE_DRIVER=sqlite CONTACTS_DATABASE_PATH=contacts.db go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // nothing left to report to

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("contacts service stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, dialect, err := store.Connect(ctx, cfg.Database.Driver, cfg.Database.DataSourceName())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database", zap.String("dialect", string(dialect)))

	gin.SetMode(cfg.Gin.Mode)
	gw := gateway.New(store.NewSQLStore(db, dialect), gateway.StaticPermissions(cfg.Permissions.Granted), logger)
	router := service.New(gw, logger).SetupHttpRouter(cfg.Gin)

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Info("serving contacts", zap.String("addr", addr), zap.Bool("permitted", cfg.Permissions.Granted))
	return router.Run(addr)
}
