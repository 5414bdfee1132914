package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/config"
	"gitlab.com/dirk.krummacker/contact-store/internal/gateway"
	"gitlab.com/dirk.krummacker/contact-store/internal/logging"
	"gitlab.com/dirk.krummacker/contact-store/internal/screen"
	"gitlab.com/dirk.krummacker/contact-store/internal/store"
)

var askPermissions bool

// Usage example on the command line:
// > CONTACTS_DATABASE_DRIVER=sqlite CONTACTS_LOG_OUTPUT=screen.log go run main.go --ask
var rootCmd = &cobra.Command{
	Use:          "screen",
	Short:        "Browse and edit the contact store in the terminal",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runScreen,
}

func init() {
	rootCmd.Flags().BoolVar(&askPermissions, "ask", false, "Ask for contact permissions even if they are granted by configuration")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScreen(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// the terminal belongs to the program
	if cfg.Log.Output == "" || cfg.Log.Output == "stderr" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = os.DevNull
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

	var perms gateway.Permissions = gateway.StaticPermissions(true)
	if askPermissions || !cfg.Permissions.Granted {
		perms = &gateway.PromptPermissions{Prompt: terminalPrompt(os.Stdin, os.Stdout)}
	}
	s := screen.New(gateway.New(store.NewSQLStore(db, dialect), perms, logger), logger)

	// Ask before the program takes over the terminal. The model starts from
	// the opened state.
	s.Open(ctx)

	if _, err := tea.NewProgram(screen.NewModel(ctx, s), tea.WithAltScreen()).Run(); err != nil {
		logger.Error("screen stopped", zap.Error(err))
		return err
	}
	return nil
}

// terminalPrompt asks the user on the terminal to grant the capabilities.
func terminalPrompt(in io.Reader, out io.Writer) func(context.Context, []gateway.Capability) bool {
	return func(_ context.Context, capabilities []gateway.Capability) bool {
		names := make([]string, 0, len(capabilities))
		for _, c := range capabilities {
			names = append(names, string(c))
		}
		fmt.Fprintf(out, "Allow access to contacts (%s)? [y/N] ", strings.Join(names, ", "))
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
