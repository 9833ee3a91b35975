package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/internal/config"
	"github.com/avantolog/avanto/internal/tui"
	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("avanto " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		}
	}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		cfgPath = ""
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	store, err := session.DefaultStore()
	if err != nil {
		return err
	}

	c := client.New(cfg.API.URL, store)
	if cfg.API.Debug {
		c.SetDebugWriter(os.Stderr)
	}

	sess := session.NewManager(c, store)
	c.SetAuthErrorHandler(sess.HandleAuthError)

	sess.Restore()
	if sess.State() == session.StateAuthenticated {
		// Refresh the profile; only an actual auth failure drops the session.
		// Network/server errors launch the TUI anyway, it retries internally.
		sess.Revalidate(context.Background()) //nolint:errcheck
	}

	app := tui.NewApp(c, sess, cfg.API.PerPage)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogout clears the local session without starting the TUI. The backend
// token is not revoked here; the in-app logout does that.
func runLogout() error {
	store, err := session.DefaultStore()
	if err != nil {
		return err
	}
	if store.Token() == "" {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func printHelp() {
	fmt.Print(`avanto — terminal client for the avanto ice bath log

Usage:
  avanto            launch the interactive UI
  avanto logout     clear the locally saved session
  avanto version    print the version
  avanto help       show this help

Environment:
  AVANTO_API_URL    backend base URL (required in production)
  AVANTO_API_DEBUG  log API requests to stderr (true/false)
  AVANTO_ENV        development (default) or production

Configuration can also live in ~/.avanto/config.yaml.
`)
}
