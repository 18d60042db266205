package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rotate the access token once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(cfg config.Config, m *session.Manager) error {
			if err := m.RefreshAccessToken(cmd.Context()); err != nil {
				return fmt.Errorf("refresh failed, login required: %w", err)
			}
			fmt.Println("Access token rotated.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
