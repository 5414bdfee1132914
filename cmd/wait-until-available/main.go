package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/config"
	"gitlab.com/dirk.krummacker/contact-store/internal/logging"
)

// Usage example on the command line:
// > PORT=8080 go run main.go
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

	url := fmt.Sprintf("http://localhost:%d/contacts", cfg.Port)
	totalWaitTime := 0
	for {
		res, err := http.Get(url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				logger.Info("contacts service is available", zap.String("url", url))
				break
			}
			logger.Info("contacts service not ready", zap.Int("status", res.StatusCode))
		} else {
			logger.Info("contacts service not reachable", zap.Error(err))
		}
		totalWaitTime += 5
		logger.Info("waiting", zap.Int("seconds", totalWaitTime))
		time.Sleep(5 * time.Second)
	}
}
