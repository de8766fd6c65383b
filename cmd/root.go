package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
	"github.com/spf13/cobra"

	"github.com/pulumi/json-equals/internal/log"
)

// errDocumentsDiffer is returned when --fail-on-diff is set and a comparison
// found inequalities. The report has already been printed.
var errDocumentsDiffer = errors.New("documents differ")

func rootCmd() *cobra.Command {
	var verbose int
	var logLevel, configPath string

	command := &cobra.Command{
		Use:   "json-equals",
		Short: "json-equals is a CLI utility to deep-compare JSON documents",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitLogging(false, verbose, false)
			log.SetLevel(logLevel)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	command.PersistentFlags().IntVarP(&verbose, "verbose", "v", 0,
		"diagnostic verbosity of document loading (9 logs URLs, 11 logs headers)")
	command.PersistentFlags().StringVar(&logLevel, "log-level", log.LevelInfo,
		"log level: debug, info, warn or error (debug traces every compared leaf)")
	command.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (defaults to the nearest .json-equals.yaml)")

	command.AddCommand(compareCmd(&configPath))
	command.AddCommand(compareDirCmd(&configPath))
	command.AddCommand(statsCmd())
	command.AddCommand(versionCmd())

	return command
}

func Execute() {
	if err := rootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
