package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(cfg config.Config, m *session.Manager) error {
			if !m.IsLoggedIn() {
				fmt.Println("Not logged in.")
				return nil
			}
			user, err := m.FetchProfile(cmd.Context())
			if err != nil {
				fmt.Println("Logged in (profile unavailable).")
				return nil
			}
			fmt.Printf("Logged in as %s <%s>\n", user.FullName(), user.Email)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
