package main

import (
	"os"

	"github.com/arthur-debert/q2usage/cmd/q2usage"
)

func main() {
	os.Exit(q2usage.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
