package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pulumi/json-equals/internal/config"
	"github.com/pulumi/json-equals/internal/load"
	"github.com/pulumi/json-equals/internal/stats"
)

func statsCmd() *cobra.Command {
	var format string

	command := &cobra.Command{
		Use:   "stats <document>",
		Short: "Get the shape statistics of a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := load.Loader{Stdin: cmd.InOrStdin()}
			doc, err := loader.Document(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s := stats.Of(doc)
			if format == config.FormatJSON {
				return renderStatsJSON(cmd.OutOrStdout(), s)
			}
			renderStats(cmd.OutOrStdout(), args[0], s)
			return nil
		},
	}

	command.Flags().StringVarP(&format, "format", "f", config.FormatText, "output format: text or json")

	return command
}

func renderStats(out io.Writer, location string, s stats.Stats) {
	fmt.Fprintf(out, "Document: %s\n", location)
	fmt.Fprintf(out, "Objects: %d (%d fields)\n", s.Summary.Objects, s.Summary.Fields)
	fmt.Fprintf(out, "Arrays: %d (%d empty)\n", s.Summary.Arrays, s.Summary.EmptyArrays)
	fmt.Fprintf(out, "Leaves: %d\n", s.Summary.Leaves())
	fmt.Fprintf(out, "  strings: %d\n", s.Summary.Strings)
	fmt.Fprintf(out, "  integers: %d\n", s.Summary.Integers)
	fmt.Fprintf(out, "  floats: %d\n", s.Summary.Floats)
	fmt.Fprintf(out, "  booleans: %d\n", s.Summary.Booleans)
	fmt.Fprintf(out, "  nulls: %d\n", s.Summary.Nulls)
	fmt.Fprintf(out, "Max depth: %d\n", s.Summary.MaxDepth)

	if len(s.Paths) == 0 {
		return
	}
	paths := make([]string, 0, len(s.Paths))
	for p := range s.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	fmt.Fprintln(out, "\nLeaf paths:")
	for _, p := range paths {
		fmt.Fprintf(out, "- `%s`: %d\n", p, s.Paths[p])
	}
}

func renderStatsJSON(out io.Writer, s stats.Stats) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats JSON: %w", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
