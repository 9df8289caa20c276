package main

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"regions/internal/fixture"
)

// fileResult is the outcome of one fixture; indices match the input paths.
type fileResult struct {
	path   string
	fx     *fixture.Fixture
	detail string
	err    error
}

// processAll loads every path and runs each on the loaded fixture, at most
// jobs at a time. Both steps are timed under --timings, each as phase.
// Per-file failures land in the results; only cancellation of ctx is
// returned as an error.
func processAll(ctx context.Context, paths []string, jobs int, phase string, each func(*fixture.Fixture) (string, error)) ([]fileResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]fileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := fileResult{path: path}
			stop := timings.Track("load")
			res.fx, res.err = fixture.Load(gctx, path)
			stop()
			if res.err == nil && each != nil {
				stop = timings.Track(phase)
				res.detail, res.err = each(res.fx)
				stop()
			}
			// indices are unique per goroutine, no lock needed
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func jobsFlag(cmd *cobra.Command) int {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return 0
	}
	return jobs
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
