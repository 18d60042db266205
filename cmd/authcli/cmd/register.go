package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerEmail    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the identity service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(cfg config.Config, m *session.Manager) error {
			displayAppname(cfg.GetAppName())

			password, err := promptLine("Password: ")
			if err != nil {
				return err
			}
			passwordConfirm, err := promptLine("Confirm password: ")
			if err != nil {
				return err
			}
			if err := users.ValidateRegistration(registerUsername, password, passwordConfirm); err != nil {
				return err
			}

			outcome := m.Register(cmd.Context(), identity.Form{
				Username:        registerUsername,
				Email:           registerEmail,
				Password:        password,
				PasswordConfirm: passwordConfirm,
			})
			switch outcome.Status {
			case identity.StatusStepUpRequired:
				return confirmOtp(cmd, m)
			case identity.StatusAuthenticated:
				fmt.Println("Registered and logged in.")
				return nil
			default:
				printAuthErrors(m)
				return fmt.Errorf("registration failed")
			}
		})
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(registerCmd)
}
