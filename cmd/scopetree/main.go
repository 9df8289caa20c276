package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"regions/internal/observ"
	"regions/internal/prof"
	"regions/internal/version"
)

// errFailed is returned by commands that already reported their failures.
var errFailed = errors.New("failed")

// newRootCmd builds the command tree. finish must be called once Execute
// returns; it flushes the tracer set up by the persistent pre-run.
func newRootCmd() (root *cobra.Command, finish func(failed bool)) {
	root = &cobra.Command{
		Use:           "scopetree",
		Short:         "Replay, check and query region scope trees",
		Long:          `scopetree replays TOML descriptions of a body's scopes into a region scope tree and answers lifetime queries against it`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Int("jobs", 0, "max parallel fixtures (0=auto)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring|both")
	pf.Bool("timings", false, "print phase timings to stderr")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")

	var cleanups []func(failed bool)
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		stopProf, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProf)
		stopTrace, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTrace)
		if on, _ := cmd.Root().PersistentFlags().GetBool("timings"); on {
			timings = observ.NewTimer()
			stderr := cmd.ErrOrStderr()
			cleanups = append(cleanups, func(bool) { timings.WriteSummary(stderr) })
		}
		return nil
	}

	root.AddCommand(
		newCheckCmd(),
		newQueryCmd(),
		newDumpCmd(),
		newHashCmd(),
		newVersionCmd(),
	)
	return root, func(failed bool) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](failed)
		}
		timings = nil
	}
}

// timings is set by --timings for the duration of one invocation.
var timings *observ.Timer

func setupProfiling(cmd *cobra.Command) (func(failed bool), error) {
	flags := cmd.Root().PersistentFlags()
	cpu, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	mem, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	stop, err := prof.Start(prof.Config{CPU: cpu, Mem: mem})
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	return func(bool) {
		if err := stop(); err != nil {
			fmt.Fprintf(stderr, "profile: %v\n", err)
		}
	}, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, finish := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	finish(err != nil)
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "scopetree: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
