package q2usage

import (
	"fmt"
	"io"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/arthur-debert/q2usage/pkg/output"
)

// Execute runs the command line with args and returns the process exit
// status. Failures are reported on stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	verbosity, _ := rootCmd.PersistentFlags().GetCount("verbose")
	return Report(stderr, err, verbosity > 0)
}

// Report prints err to w in the error style, followed by its details when
// verbose, and returns the exit status for it.
func Report(w io.Writer, err error, verbose bool) int {
	if err == nil {
		return 0
	}
	style := output.DefaultStyles(w).Get("Error")
	fmt.Fprintln(w, style.Render(fmt.Sprintf("Error: %v", err)))

	if verbose {
		if details := errors.GetErrorDetails(err); len(details) > 0 {
			fmt.Fprintf(w, MsgErrDetails, errors.FormatDetails(details))
		}
	}
	return errors.ExitCode(err)
}
