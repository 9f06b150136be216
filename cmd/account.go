package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quizziebot/quizzie/internal/auth"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Quizzie backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		in := bufio.NewReader(os.Stdin)
		var err error
		if email == "" {
			if email, err = prompt(in, "Email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = prompt(in, "Password: "); err != nil {
				return err
			}
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.auth.SignIn(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		fmt.Printf("Signed in as %s.\n", u.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if _, ok := e.auth.Current(); !ok {
			fmt.Println("Not signed in.")
			return nil
		}
		if err := e.auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and their statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if err := e.auth.Refresh(ctx); err != nil {
			if errors.Is(err, auth.ErrNotSignedIn) {
				fmt.Println("Not signed in. Run 'quizzie login' first.")
				return nil
			}
			fmt.Fprintln(os.Stderr, "Could not refresh profile:", err)
		}
		u, _ := e.auth.Current()

		fmt.Printf("User:      %s\n", u.Username)
		fmt.Printf("Email:     %s\n", u.Email)
		fmt.Printf("Score:     %d\n", u.Score)
		if len(u.FavoriteTopics) > 0 {
			fmt.Printf("Topics:    %s\n", strings.Join(u.FavoriteTopics, ", "))
		}

		stats, err := e.client.GetUserStatistics(ctx, u.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Statistics unavailable:", err)
			return nil
		}
		fmt.Printf("Quizzes:   %d\n", stats.QuizzesTaken)
		fmt.Printf("Correct:   %d / %d (%.0f%%)\n", stats.CorrectAnswers, stats.TotalQuestions, stats.Accuracy)
		fmt.Printf("Coins:     %d\n", stats.Coins)
		fmt.Printf("XP:        %d\n", stats.XP)
		if stats.Rank > 0 {
			fmt.Printf("Rank:      #%d\n", stats.Rank)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Sign out and restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if _, ok := e.auth.Current(); ok {
			if err := e.auth.SignOut(ctx); err != nil {
				return err
			}
		}
		if err := e.prefs.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Local account and settings cleared. Quiz history was kept.")
		return nil
	},
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
}
