package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"regions/internal/trace"
)

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns the matching cleanup. On failure a ring buffer, if
// any, is dumped to stderr before closing.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// an output without an explicit level means "show me the passes"
	if output != "" && !flags.Changed("trace-level") {
		level = trace.LevelDetail
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	span := trace.Begin(tracer, trace.ScopeTool, cmd.Name(), 0)
	stderr := cmd.ErrOrStderr()
	return func(failed bool) {
		status := "ok"
		if failed {
			status = "failed"
		}
		span.End(status)
		if failed {
			dumpRing(tracer, stderr, format)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(stderr, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close error: %v\n", err)
		}
	}, nil
}

func dumpRing(t trace.Tracer, w io.Writer, format trace.Format) {
	var ring *trace.RingTracer
	switch tt := t.(type) {
	case *trace.RingTracer:
		ring = tt
	case *trace.MultiTracer:
		r, ok := tt.Ring()
		if !ok {
			return
		}
		ring = r
	default:
		return
	}
	fmt.Fprintln(w, "trace: last events before failure")
	if err := ring.Dump(w, format); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
