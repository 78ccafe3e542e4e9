// Command q2usage-completions prints the q2usage completion script for a shell.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/q2usage/cmd/q2usage"
	"github.com/arthur-debert/q2usage/pkg/logging"
)

var generators = map[string]func(*cobra.Command, io.Writer) error{
	"bash":       func(c *cobra.Command, w io.Writer) error { return c.GenBashCompletionV2(w, true) },
	"zsh":        func(c *cobra.Command, w io.Writer) error { return c.GenZshCompletion(w) },
	"fish":       func(c *cobra.Command, w io.Writer) error { return c.GenFishCompletion(w, true) },
	"powershell": func(c *cobra.Command, w io.Writer) error { return c.GenPowerShellCompletionWithDesc(w) },
}

func shells() string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func main() {
	logging.SetupLogger(0)
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <%s>\n", os.Args[0], shells())
		os.Exit(1)
	}

	shell := os.Args[1]
	gen, ok := generators[shell]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown shell: %s (supported: %s)\n", shell, shells())
		os.Exit(1)
	}
	logging.Must(gen(q2usage.NewRootCmd(), os.Stdout), "error generating "+shell+" completion")
}
