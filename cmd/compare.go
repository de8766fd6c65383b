package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pulumi/json-equals/internal/config"
	"github.com/pulumi/json-equals/internal/load"
	"github.com/pulumi/json-equals/pkg/compare"
)

func compareCmd(configPath *string) *cobra.Command {
	var flags compareFlags

	command := &cobra.Command{
		Use:   "compare <source> <comparate>",
		Short: "Deep-compare two JSON documents",
		Long: "Deep-compare two JSON documents. Each document is a file path, \"-\" for stdin,\n" +
			"an http(s) URL or github://<host>/<owner>/<repo>/<path>[?ref=<ref>] (gitlab:// alike).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, *configPath)
			if err != nil {
				return err
			}
			loader := load.Loader{Stdin: cmd.InOrStdin()}
			equal, err := compareDocuments(cmd, loader, args[0], args[1], cfg)
			if err != nil {
				return err
			}
			if !equal && flags.failOnDiff {
				return errDocumentsDiffer
			}
			return nil
		},
	}
	flags.register(command)

	return command
}

func compareDocuments(cmd *cobra.Command, loader load.Loader, source, comparate string, cfg *config.Config) (bool, error) {
	ctx := cmd.Context()
	sourceData, err := loader.Bytes(ctx, source)
	if err != nil {
		return false, err
	}
	comparateData, err := loader.Bytes(ctx, comparate)
	if err != nil {
		return false, err
	}

	result, err := compare.Compare(sourceData, comparateData, publicOptions(cfg))
	if err != nil {
		return false, fmt.Errorf("comparing %s with %s: %w", source, comparate, err)
	}
	if err := render(cmd.OutOrStdout(), result, cfg.Output.Format); err != nil {
		return false, err
	}
	return result.Equal, nil
}

func render(out io.Writer, result compare.Result, format string) error {
	switch format {
	case config.FormatJSON:
		return compare.RenderJSON(out, result, false)
	case config.FormatSummary:
		return compare.RenderSummary(out, result)
	default:
		compare.RenderText(out, result)
		return nil
	}
}
