package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regions/internal/fixture"
	"regions/internal/testkit"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Replay fixtures and verify scope tree invariants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := processAll(cmd.Context(), args, jobsFlag(cmd), "check", func(fx *fixture.Fixture) (string, error) {
				if err := testkit.CheckScopeTree(fx.Tree); err != nil {
					return "", err
				}
				return fmt.Sprintf("%d links", fx.Tree.Len()), nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			quiet := quietFlag(cmd)
			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", failColor.Sprint("FAIL"), r.path, r.err)
					continue
				}
				if !quiet {
					fmt.Fprintf(out, "%s %s %s\n", okColor.Sprint("OK"), r.path, dimColor.Sprintf("(%s)", r.detail))
				}
			}
			if failed > 0 {
				if !quiet {
					fmt.Fprintf(out, "%d of %d fixtures failed\n", failed, len(results))
				}
				return errFailed
			}
			return nil
		},
	}
}
