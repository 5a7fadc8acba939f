package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotmgr/cmd/dotmgr"
	"github.com/arthur-debert/dotmgr/internal/version"
)

func main() {
	rootCmd := dotmgr.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DOTMGR",
		Section: "1",
		Source:  "dotmgr " + version.Version,
		Manual:  "dotmgr manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
