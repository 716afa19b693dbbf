package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPathsCmd(a *app) *cobra.Command {
	var (
		maxPaths int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "paths <model> <source> <target>",
		Short: "List simple relationship paths between two entities",
		Long: `Enumerates simple paths from source to target, shortest first. The
enumeration stops at --max-paths (or the configured max_paths).

Example:
  ormlens paths shop.yaml Order Address`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if maxPaths > 0 {
				a.cfg.Analysis.MaxPaths = maxPaths
			}
			analyzer, err := a.analyzer("", 0)
			if err != nil {
				return err
			}

			result := analyzer.Paths(cmd.Context(), nodes, args[1], args[2])
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			if len(result.Paths) == 0 {
				fmt.Fprintf(a.out, "no path from %s to %s\n", args[1], args[2])
			}
			for _, p := range result.Paths {
				fmt.Fprintln(a.out, strings.Join(p, " -> "))
			}
			if result.Truncated {
				fmt.Fprintf(a.out, "(truncated after %d paths)\n", len(result.Paths))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPaths, "max-paths", 0, "Stop after this many paths; overrides config")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
