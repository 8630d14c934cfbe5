package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/backend"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the vocabulary service",
	Long:  "Sign in to the vocabulary service. When --password is omitted it is read from the first line of stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFlag(cmd)
		if err != nil {
			return err
		}
		return withAccount(cmd, func(acc backend.Account) error {
			if err := acc.Login(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Printf("Signed in as %s\n", acc.Username())
			return nil
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		username, _ := cmd.Flags().GetString("username")
		password, err := passwordFlag(cmd)
		if err != nil {
			return err
		}
		return withAccount(cmd, func(acc backend.Account) error {
			if err := acc.Register(cmd.Context(), email, password, username); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Printf("Welcome, %s\n", acc.Username())
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(cmd, func(acc backend.Account) error {
			if err := acc.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Println("Signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(cmd, func(acc backend.Account) error {
			name := acc.Username()
			if name == "" {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Println(name)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().String("username", "", "Display name")
}

func withAccount(cmd *cobra.Command, fn func(acc backend.Account) error) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	if e.client == nil {
		return errOffline
	}
	return fn(backend.NewRemote(e.client))
}

// passwordFlag returns --password, or the first line of stdin.
func passwordFlag(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	fmt.Fprintln(os.Stderr)
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", fmt.Errorf("password is required")
	}
	return line, nil
}
