package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the identity service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(cfg config.Config, m *session.Manager) error {
			displayAppname(cfg.GetAppName())

			password := loginPassword
			if password == "" {
				var err error
				if password, err = promptLine("Password: "); err != nil {
					return err
				}
			}

			outcome := m.Login(cmd.Context(), identity.Form{
				Username: loginUsername,
				Password: password,
			})
			switch outcome.Status {
			case identity.StatusStepUpRequired:
				return confirmOtp(cmd, m)
			case identity.StatusAuthenticated:
				fmt.Println("Logged in.")
				return nil
			default:
				printAuthErrors(m)
				return fmt.Errorf("login failed")
			}
		})
	},
}

func confirmOtp(cmd *cobra.Command, m *session.Manager) error {
	code, err := promptLine("OTP code: ")
	if err != nil {
		return err
	}
	outcome, err := m.ConfirmOTP(cmd.Context(), code)
	if err != nil {
		return err
	}
	if outcome.Status != identity.StatusAuthenticated {
		printAuthErrors(m)
		return fmt.Errorf("OTP confirmation failed")
	}
	fmt.Println("Logged in.")
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printAuthErrors(m *session.Manager) {
	for field, messages := range m.AuthErrors() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", field, strings.Join(messages, "; "))
	}
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(loginCmd)
}
