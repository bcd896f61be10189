package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and start a session",
	Long: `Log in with your username and password.
The issued token is kept in the platform credential store and the
session survives until you log out.`,
	RunE: runLoginCommand,
}

var loginUsername string

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Account username (required)")
	loginCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd)
}

func runLoginCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	app.Guard.Reconcile()
	if app.State.Authenticated() {
		return fmt.Errorf("already logged in as %s. Use 'logout' to log out first", app.Role())
	}

	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	profile, err := app.Manager.Login(cmd.Context(), loginUsername, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", profile.Username, profile.Role)
	return nil
}

// readPassword prompts on stderr so the prompt never ends up in piped
// output. When stdin is not a terminal the password is read as one line,
// which keeps scripted logins working.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
