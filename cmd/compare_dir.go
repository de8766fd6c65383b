package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pulumi/json-equals/internal/batch"
	internalcompare "github.com/pulumi/json-equals/internal/compare"
	"github.com/pulumi/json-equals/internal/config"
	"github.com/pulumi/json-equals/internal/load"
	"github.com/pulumi/json-equals/internal/log"
)

func compareDirCmd(configPath *string) *cobra.Command {
	var flags compareFlags
	var pattern string
	var workers int

	command := &cobra.Command{
		Use:   "compare-dir <source-dir> <comparate-dir>",
		Short: "Deep-compare every JSON document of two directory trees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, *configPath)
			if err != nil {
				return err
			}
			differing, err := compareDirs(cmd, args[0], args[1], pattern, workers, cfg)
			if err != nil {
				return err
			}
			if differing > 0 && flags.failOnDiff {
				return fmt.Errorf("%w: %d document pair(s)", errDocumentsDiffer, differing)
			}
			return nil
		},
	}
	flags.register(command)
	command.Flags().StringVar(&pattern, "pattern", batch.DefaultPattern,
		"doublestar glob selecting the documents to compare")
	command.Flags().IntVar(&workers, "workers", runtime.NumCPU(),
		"number of documents compared concurrently")

	return command
}

// compareDirs prints one report per document pair and returns the number of
// pairs that are missing a side, failed to load or differ.
func compareDirs(cmd *cobra.Command, sourceDir, comparateDir, pattern string, workers int, cfg *config.Config) (int, error) {
	pairs, err := batch.Pairs(sourceDir, comparateDir, pattern)
	if err != nil {
		return 0, err
	}
	log.Infof("comparing %d document(s) matching %s", len(pairs), pattern)

	opts := cfg.Options()
	if log.Enabled(log.LevelDebug) {
		opts.Logger = log.Default
	}
	outcomes, err := batch.Run(cmd.Context(), internalcompare.New(opts), load.Loader{}, pairs, workers)
	if err != nil {
		return 0, err
	}

	differing := 0
	for _, o := range outcomes {
		if o.Err != nil || !o.Report.IsEqual() {
			differing++
		}
	}

	out := cmd.OutOrStdout()
	if cfg.Output.Format == config.FormatJSON {
		return differing, renderOutcomesJSON(out, outcomes)
	}
	renderOutcomesText(out, outcomes, cfg)
	return differing, nil
}

func renderOutcomesText(out io.Writer, outcomes []batch.Outcome, cfg *config.Config) {
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(out, "%s: error: %v\n", o.Pair.Rel, o.Err)
		case o.Report.IsEqual():
			fmt.Fprintf(out, "%s: equal\n", o.Pair.Rel)
		case cfg.Output.Format == config.FormatSummary:
			fmt.Fprintf(out, "%s: %d inequalities\n", o.Pair.Rel, o.Report.InequalityCount())
		default:
			fmt.Fprintf(out, "\n## %s\n\n", o.Pair.Rel)
			internalcompare.RenderText(out, o.Report, cfg.Output.MaxChanges)
			if cfg.Output.ShowSuccesses {
				internalcompare.RenderSuccesses(out, o.Report)
			}
		}
	}
}

type outcomeJSON struct {
	Path         string   `json:"path"`
	Equal        bool     `json:"equal"`
	Error        string   `json:"error,omitempty"`
	Inequalities []string `json:"inequalities"`
}

func renderOutcomesJSON(out io.Writer, outcomes []batch.Outcome) error {
	payload := make([]outcomeJSON, len(outcomes))
	for i, o := range outcomes {
		payload[i] = outcomeJSON{
			Path:         o.Pair.Rel,
			Equal:        o.Err == nil && o.Report.IsEqual(),
			Inequalities: o.Report.Inequalities(),
		}
		if o.Err != nil {
			payload[i].Error = o.Err.Error()
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal compare-dir JSON: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write compare-dir JSON: %w", err)
	}
	return nil
}
