package cmd

import (
	"context"
	"time"

	"github.com/quizziebot/quizzie/internal/app"
	"github.com/quizziebot/quizzie/internal/selfupdate"
	"github.com/spf13/cobra"
)

const updateCheckTimeout = 5 * time.Second

// runApp builds dependencies and launches the TUI. A non-empty quizID
// opens that quiz straight away.
func runApp(cmd *cobra.Command, quizID string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	return app.Run(ctx, app.Options{
		Deps:        e.screenDeps(ctx),
		UpdateCheck: checkForUpdate,
		QuizID:      quizID,
	})
}

// checkForUpdate asks GitHub for the latest release. Failures are treated
// as "no update".
func checkForUpdate(ctx context.Context) (string, bool) {
	checker := selfupdate.NewChecker(selfupdate.WithTimeout(updateCheckTimeout))
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil || !res.UpdateAvailable {
		return "", false
	}
	return res.LatestVersion, true
}
