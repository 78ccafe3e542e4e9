// Command q2usage-manpage writes the q2usage man page to stdout, or one page
// per command into the directory given as its only argument.
package main

import (
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/q2usage/cmd/q2usage"
	"github.com/arthur-debert/q2usage/internal/version"
	"github.com/arthur-debert/q2usage/pkg/logging"
)

func main() {
	logging.SetupLogger(0)
	rootCmd := q2usage.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "Q2USAGE",
		Section: "1",
		Source:  "q2usage " + version.Version,
		Manual:  "q2usage manual",
	}

	if len(os.Args) > 1 {
		dir := os.Args[1]
		logging.Must(os.MkdirAll(dir, 0755), "cannot create man page directory")
		logging.Must(doc.GenManTree(rootCmd, header, dir), "error generating man pages")
		return
	}
	logging.Must(doc.GenMan(rootCmd, header, os.Stdout), "error generating man page")
}
