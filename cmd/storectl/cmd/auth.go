package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pianostore/internal/session"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an access token and fetch the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginToken == "" {
			return fmt.Errorf("--token is required")
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.session.SetToken(loginToken, nil); err != nil {
			return err
		}
		if err := a.session.FetchUser(); err != nil {
			if errors.Is(err, session.ErrNoProfileEndpoint) {
				fmt.Println("Logged in (backend exposes no profile endpoint).")
				return nil
			}
			return fmt.Errorf("login rejected: %w", err)
		}
		fmt.Printf("Logged in as %s\n", a.session.Username())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored token and profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.session.ClearAuth(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.session.InitAuth()
		if !a.session.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("Logged in as %s\n", a.session.Username())
		if exp, ok := a.session.TokenExpiry(); ok {
			if time.Now().After(exp) {
				fmt.Printf("Warning: token expired at %s\n", exp.Format(time.RFC3339))
			} else {
				fmt.Printf("Token valid until %s\n", exp.Format(time.RFC3339))
			}
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "access token issued by the backend")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
