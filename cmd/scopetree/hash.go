package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"regions/internal/fixture"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the stable fingerprint of each replayed fixture",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := processAll(cmd.Context(), args, jobsFlag(cmd), "fingerprint", func(fx *fixture.Fixture) (string, error) {
				d, err := fx.Tree.Fingerprint(fx.Table)
				if err != nil {
					return "", err
				}
				return d.String(), nil
			})
			if err != nil {
				return err
			}

			failed := false
			for _, r := range results {
				if r.err != nil {
					failed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", failColor.Sprint("FAIL"), r.path, r.err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.detail, r.path)
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
}
