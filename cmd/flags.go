package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulumi/json-equals/internal/config"
	"github.com/pulumi/json-equals/internal/log"
	"github.com/pulumi/json-equals/pkg/compare"
)

// compareFlags are shared by compare and compare-dir. Flags that are set on
// the command line override the config file; --ignore and --prune extend it.
type compareFlags struct {
	ignore        []string
	prune         []string
	skipEmpty     bool
	format        string
	maxChanges    int
	showSuccesses bool
	failOnDiff    bool
}

func (f *compareFlags) register(command *cobra.Command) {
	command.Flags().StringArrayVarP(&f.ignore, "ignore", "i", nil,
		`path pattern to skip, e.g. "$[*].meta.updated" (repeatable)`)
	command.Flags().StringArrayVar(&f.prune, "prune", nil,
		`drop array elements, as "<path>:<field>=<value>", e.g. "$.items[*]:status=stale" (repeatable)`)
	command.Flags().BoolVar(&f.skipEmpty, "skip-empty-arrays", false,
		"do not report arrays that are empty on one side only")
	command.Flags().StringVarP(&f.format, "format", "f", config.FormatText,
		"output format: text, json or summary")
	command.Flags().IntVar(&f.maxChanges, "max-changes", 500,
		"maximum number of inequality lines in text output (-1 for no limit)")
	command.Flags().BoolVar(&f.showSuccesses, "show-successes", false,
		"list every matched value in text output")
	command.Flags().BoolVar(&f.failOnDiff, "fail-on-diff", true,
		"exit with a non-zero status when the documents differ")
}

// resolve merges the config file at configPath (or the discovered one) with
// the command line.
func (f *compareFlags) resolve(command *cobra.Command, configPath string) (*config.Config, error) {
	pruneKeys, err := parsePruneFlags(f.prune)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfigWithCLI(configPath, f.ignore, pruneKeys)
	if err != nil {
		return nil, err
	}

	flags := command.Flags()
	if flags.Changed("skip-empty-arrays") {
		cfg.SkipEmptyArrays = f.skipEmpty
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("max-changes") {
		cfg.Output.MaxChanges = f.maxChanges
	}
	if flags.Changed("show-successes") {
		cfg.Output.ShowSuccesses = f.showSuccesses
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parsePruneFlags(values []string) (map[string]string, error) {
	keys := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("--prune %q: expected <path>:<field>=<value>", v)
		}
		keys[key] = value
	}
	return keys, nil
}

// publicOptions converts cfg into options of the public compare package.
func publicOptions(cfg *config.Config) compare.Options {
	rules := make([]compare.PruneRule, len(cfg.Prune))
	for i, r := range cfg.Prune {
		rules[i] = compare.PruneRule{Path: r.Path, Field: r.Field, Value: r.Value}
	}

	opts := compare.Options{
		Ignore:          cfg.Ignore,
		Prune:           rules,
		PruneKeys:       cfg.PruneKeys,
		SkipEmptyArrays: cfg.SkipEmptyArrays,
		MaxChanges:      cfg.Output.MaxChanges,
		ShowSuccesses:   cfg.Output.ShowSuccesses,
	}
	if log.Enabled(log.LevelDebug) {
		opts.Logger = log.Default
	}
	return opts
}
