package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"strata/internal/record"
	"strata/internal/ui"
)

var (
	verifyJobs int
	verifyUI   string
)

func init() {
	verifyCmd.Flags().IntVar(&verifyJobs, "jobs", 0, "parallel verification jobs (0 = GOMAXPROCS)")
	verifyCmd.Flags().StringVar(&verifyUI, "ui", "auto", "interactive progress (auto|on|off)")
}

var verifyCmd = &cobra.Command{
	Use:   "verify <record.mp>...",
	Short: "Validate dispatch record files",
	Long:  `Verify checks each record file's header schema, event encoding and sequence monotonicity. Files are verified in parallel.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs := verifyJobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}

		useUI, err := resolveUIMode(verifyUI)
		if err != nil {
			return err
		}

		type result struct {
			sum record.Summary
			err error
		}
		results := make([]result, len(args))
		events := make(chan ui.VerifyEvent, len(args)*2)

		g, gctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(min(jobs, len(args)))
		var wg sync.WaitGroup
		wg.Add(len(args))
		for i, path := range args {
			g.Go(func() error {
				defer wg.Done()
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				events <- ui.VerifyEvent{File: path, Status: ui.StatusChecking}
				sum, err := record.Verify(path)
				results[i] = result{sum: sum, err: err}
				if err != nil {
					events <- ui.VerifyEvent{File: path, Status: ui.StatusFailed, Detail: err.Error()}
				} else {
					events <- ui.VerifyEvent{File: path, Status: ui.StatusOK, Detail: fmt.Sprintf("%d events", sum.Events)}
				}
				return nil
			})
		}
		go func() {
			wg.Wait()
			close(events)
		}()

		if useUI {
			model := ui.NewVerifyModel("verifying records", args, events)
			if _, err := tea.NewProgram(model).Run(); err != nil {
				return fmt.Errorf("progress ui: %w", err)
			}
		} else {
			quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
			for ev := range events {
				if ev.Status == ui.StatusChecking || quiet {
					continue
				}
				label := "ok"
				if ev.Status == ui.StatusFailed {
					label = "FAIL"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s  %s\n", label, ev.File, ev.Detail)
			}
		}

		if err := g.Wait(); err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d record files failed verification", failed, len(args))
		}
		return nil
	},
}

func resolveUIMode(mode string) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("unsupported ui mode %q (must be auto, on or off)", mode)
	}
}
