package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes distinguish caller mistakes from data and internal failures.
const (
	exitUsage      = 1
	exitValidation = 2
	exitEphemeris  = 3
	exitUnexpected = 99
)

var ephemerisPath string

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := &cobra.Command{
		Use:           "astroctl",
		Short:         "Natal chart computation from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&ephemerisPath, "ephemeris-path", os.Getenv("EPHEMERIS_PATH"), "directory with Swiss Ephemeris data files")

	root.AddCommand(computeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return 0
}
