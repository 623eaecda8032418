package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

// rootOptions are the persistent flags. Empty values leave the settings
// loaded from file and environment untouched.
type rootOptions struct {
	settingsFile string
	dataDir      string
	source       string
	dsn          string
	configFile   string
	logLevel     string
	logFormat    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "premcast",
		Short: "Insurance premium forecasting CLI",
		Long: `Forecast average life insurance premiums for a segmented policy book under
economic and mortality scenarios, and compare scenarios side by side.

Settings are read from an optional .env file, the --settings file and
PREMCAST_* environment variables; the flags below override all three.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.settingsFile, "settings", "", "Runtime settings file (YAML)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Directory holding the CSV dataset")
	pf.StringVar(&opts.source, "source", "", "Data source (csv, postgres)")
	pf.StringVar(&opts.dsn, "dsn", "", "Postgres connection string")
	pf.StringVarP(&opts.configFile, "config", "c", "", "Model configuration file (YAML)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format (console, json)")

	cmd.AddCommand(
		newForecastCmd(opts),
		newCompareCmd(opts),
		newSensitivityCmd(opts),
		newBreakevenCmd(opts),
		newValidateCmd(opts),
		newScenariosCmd(opts),
		newDataCmd(opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "premcast %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}
