package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/quizziebot/quizzie/internal/selfupdate"
	"github.com/spf13/cobra"
)

const updateTimeout = 2 * time.Minute

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update quizzie to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(updateTimeout))

		ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
		defer cancel()

		if checkOnly {
			res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
			if err != nil {
				return err
			}
			if res.UpdateAvailable {
				fmt.Printf("quizzie %s is available (running %s): %s\n", res.LatestVersion, version, res.ReleaseURL)
			} else {
				fmt.Printf("quizzie %s is up to date.\n", version)
			}
			return nil
		}

		err := checker.Update(ctx, &selfupdate.UpdateInput{CurrentVersion: version}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Println("Already running the latest version.")
			return nil
		case os.IsPermission(err):
			return fmt.Errorf("%w\n\nTry running: sudo quizzie update", err)
		}
		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
}
