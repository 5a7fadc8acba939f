package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotmgr/cmd/dotmgr"
	"github.com/arthur-debert/dotmgr/pkg/ui/styles"
)

func main() {
	rootCmd := dotmgr.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
