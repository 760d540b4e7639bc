package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"strata/internal/asyncrt"
	"strata/internal/config"
	"strata/internal/dispatch"
	"strata/internal/record"
	"strata/internal/trace"
)

var demoOut string

func init() {
	demoCmd.Flags().StringVar(&demoOut, "out", "", "record file path (default <record.dir>/demo.mp)")
}

// demoCmd runs a canned patching scenario against a fresh runtime and records
// every binding transition and guard decision. The resulting file is input
// for `strata inspect` and `strata verify`.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a patching scenario and record it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		cfg, _, err := config.Discover(".")
		if err != nil {
			return err
		}
		out := demoOut
		if out == "" {
			out = filepath.Join(cfg.Record.Dir, "demo.mp")
		}

		rec, err := record.NewRecorder(out, trace.LevelDebug)
		if err != nil {
			return err
		}

		tracer := trace.NewMultiTracer(trace.LevelDebug, rec, trace.FromContext(cmd.Context()))
		rt := dispatch.NewRuntime(
			dispatch.WithTracer(tracer),
			dispatch.WithExecutorConfig(asyncrt.Config{Fuzz: cfg.Executor.Fuzz, Seed: cfg.Executor.Seed}),
		)

		if err := runDemoScenario(cmd, rt); err != nil {
			_ = rec.Close()
			return err
		}
		if err := rec.Close(); err != nil {
			return err
		}

		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %d events to %s\n", rec.Count(), out)
		}
		return nil
	},
}

// runDemoScenario exercises the dispatch core: a direct call, a guarded
// patch, a contract violation, an async slot with a synchronous replacement,
// and a deletion observed through a call-site cache.
func runDemoScenario(cmd *cobra.Command, rt *dispatch.Runtime) error {
	out := cmd.OutOrStdout()
	ns := rt.Namespace("demo")

	counter := ns.Declare(dispatch.NewFunction("demo.counter",
		dispatch.Decl{Ret: rt.Builtins().Uint8},
		func([]dispatch.Value) (dispatch.Value, error) {
			return dispatch.MakeInt(1), nil
		}))

	v, err := counter.Call(nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "direct counter() = %s\n", v)

	if err := ns.PatchFunc("counter", func([]dispatch.Value) (dispatch.Value, error) {
		return dispatch.MakeInt(200), nil
	}); err != nil {
		return err
	}
	if v, err = counter.Call(nil); err != nil {
		return err
	}
	fmt.Fprintf(out, "patched counter() = %s\n", v)

	// A replacement that overflows uint8; the guard rejects the result.
	if err := ns.PatchFunc("counter", func([]dispatch.Value) (dispatch.Value, error) {
		return dispatch.MakeInt(300), nil
	}); err != nil {
		return err
	}
	if _, err = counter.Call(nil); err != nil {
		fmt.Fprintf(out, "guard rejected: %v\n", err)
	}

	fetch := ns.Declare(dispatch.NewFunction("demo.fetch",
		dispatch.Decl{Ret: rt.Builtins().Int64, Async: true},
		func([]dispatch.Value) (dispatch.Value, error) {
			return dispatch.MakeInt(10), nil
		}))
	if err := ns.PatchFunc("fetch", func([]dispatch.Value) (dispatch.Value, error) {
		return dispatch.MakeInt(99), nil
	}); err != nil {
		return err
	}
	fut, err := fetch.Call(nil)
	if err != nil {
		return err
	}
	v, err = rt.Drive(fut)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "async fetch() = %s\n", v)

	entry := dispatch.NewCacheEntry(ns, "counter")
	if err := ns.Delete("counter"); err != nil {
		return err
	}
	if _, err := entry.Invoke(nil); err != nil {
		fmt.Fprintf(out, "after delete: %v\n", err)
	}
	return nil
}
