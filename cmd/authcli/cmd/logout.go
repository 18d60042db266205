package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session and stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(cfg config.Config, m *session.Manager) error {
			m.Logout(false)
			fmt.Println("Logged out.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
