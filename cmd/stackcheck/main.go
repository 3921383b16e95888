package main

import (
	"os"

	"github.com/cirisai/stackcheck/cmd/stackcheck/cmd"
	"github.com/cirisai/stackcheck/internal/common"
)

// Config is handled by cmd/root.go
func main() {
	common.ConfigureCommandLineLogging()
	err := cmd.RootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
