package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/khrees2412/mockprep/internal/config"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Sign up, sign in and manage your session",
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account with an interactive prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("Welcome to mockprep! Let's create your account."))
		reader := bufio.NewReader(os.Stdin)

		in := validation.SignUp{
			Name:     prompt(reader, "Full Name: "),
			Email:    prompt(reader, "Email: "),
			Password: promptSecret(reader, "Password (min 6 characters): "),
		}

		session, err := svc.Account.SignUp(cmd.Context(), in)
		if err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("✓ Account created and signed in as " + session.Email))
		fmt.Println("Next steps:")
		fmt.Println("  1. Upload your resume: mockprep resume upload /path/to/resume.pdf")
		fmt.Println("  2. Pick a difficulty: mockprep settings set --difficulty medium --count 10")
		fmt.Println("  3. Start practicing: mockprep interview start --job-file job.txt")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		reader := bufio.NewReader(os.Stdin)
		if email == "" {
			email = prompt(reader, "Email: ")
		}
		if password == "" {
			password = promptSecret(reader, "Password: ")
		}

		session, err := svc.Account.SignIn(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Signed in as " + session.Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		if err := svc.Account.SignOut(cmd.Context(), session); err != nil {
			return err
		}
		if err := config.Set("session_token", ""); err != nil {
			return fmt.Errorf("failed to clear session token: %w", err)
		}
		fmt.Println(successStyle.Render("✓ Signed out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Email:"), valueStyle.Render(session.Email))
		fmt.Printf("%s %s\n", labelStyle.Render("User ID:"), mutedStyle.Render(session.UserID))
		fmt.Printf("%s %s\n", labelStyle.Render("Session expires:"), valueStyle.Render(absoluteTime(session.ExpiresAt)))
		return nil
	},
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(labelStyle.Render(label))
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptSecret reads a password without echo when stdin is a terminal and
// falls back to a plain line read for piped input
func promptSecret(reader *bufio.Reader, label string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(reader, label)
	}
	fmt.Print(labelStyle.Render(label))
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(secret))
}

func saveSession(session *models.Session) error {
	if err := config.Set("session_token", session.AccessToken); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(signupCmd)
	accountCmd.AddCommand(loginCmd)
	accountCmd.AddCommand(logoutCmd)
	accountCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
}
