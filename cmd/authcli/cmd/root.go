package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authcli",
	Short: "Session and credential manager for the token-based identity service",
	Long: `authcli manages the local session against the remote identity service:
login, registration, OTP confirmation, token refresh, and logout.
Tokens are stored encrypted under the configured data folder.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.GetEnv() == "DEV" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// withManager wires the store, identity client, and session manager, runs fn,
// and closes the store afterwards.
func withManager(fn func(cfg config.Config, m *session.Manager) error) error {
	cfg := config.New()
	log := newLogger(cfg)

	dataFolder := cfg.GetDataFolder()
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return fmt.Errorf("create data folder: %w", err)
	}

	bolt, err := store.NewBoltFromFile(filepath.Join(dataFolder, "tokens.db"), nil)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	defer bolt.Close()

	repo, err := store.NewEncrypted(bolt, filepath.Join(dataFolder, "store.key"))
	if err != nil {
		return fmt.Errorf("open encrypted store: %w", err)
	}

	client, err := identity.NewClient(
		cfg.GetIdentityBaseURL(),
		identity.WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
		identity.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("create identity client: %w", err)
	}

	manager, err := session.NewManager(repo, client, cfg.GetRefreshInterval(), session.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}
	installed := session.NewContainer().Install(manager)
	defer installed.Destroy()

	return fn(cfg, installed)
}
