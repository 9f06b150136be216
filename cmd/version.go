package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "(devel)"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if commit != "" {
			v += " (" + commit + ")"
		}
		fmt.Printf("quizzie %s %s/%s %s\n", v, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
