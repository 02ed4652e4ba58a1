package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	configFlagName   = "config"
	addrFlagName     = "addr"
	logFileFlagName  = "log-file"
	logLevelFlagName = "log-level"
)

var rootCmd = &cobra.Command{
	Use:          "actibourse",
	Short:        "Classroom stock market game",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(configFlagName, "", "Path to a .yaml or .toml config file")
	pf.String(addrFlagName, "", "HTTP listen address (serve), or also serve the API from the TUI when set")
	pf.String(logFileFlagName, "", "Write logs to this file")
	pf.String(logLevelFlagName, "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(tuiCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
