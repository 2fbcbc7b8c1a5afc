package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Authenticate against the backend and persist the session",
	Long: `Authenticate with the backend using email and password. On success the
session token is persisted and reused by every subsequent command until
logout or the server rejects the token.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Auth == nil {
			return fmt.Errorf("auth store not initialized")
		}

		if err := Auth.Login(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		session := Auth.Session()
		if session.User != nil {
			fmt.Printf("Logged in as %s <%s>\n", session.User.Username, session.User.Email)
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email> <password>",
	Short: "Create a new account and log in",
	Long: `Register a new account with the backend. On success the new identity is
logged in immediately and the session is persisted.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Auth == nil {
			return fmt.Errorf("auth store not initialized")
		}

		if err := Auth.Register(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("registering: %w", err)
		}

		session := Auth.Session()
		if session.User != nil {
			fmt.Printf("Registered and logged in as %s <%s>\n", session.User.Username, session.User.Email)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Auth == nil {
			return fmt.Errorf("auth store not initialized")
		}

		Auth.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Auth == nil {
			return fmt.Errorf("auth store not initialized")
		}

		session := Auth.Session()
		if !session.IsAuthenticated || session.User == nil {
			fmt.Println("Not logged in.")
			return nil
		}

		fmt.Printf("User:  %s\n", session.User.Username)
		fmt.Printf("Email: %s\n", session.User.Email)
		fmt.Printf("ID:    %s\n", session.User.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
