package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"strata/internal/record"
	"strata/internal/trace"
)

var inspectFormat string

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "output format (text|ndjson)")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <record.mp>",
	Short: "Pretty-print a dispatch record file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var format trace.Format
		switch inspectFormat {
		case "text":
			format = trace.FormatText
		case "ndjson":
			format = trace.FormatNDJSON
		default:
			return fmt.Errorf("unsupported format %q (must be text or ndjson)", inspectFormat)
		}

		header, events, err := record.ReadFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet && format == trace.FormatText {
			created := time.Unix(header.CreatedUnix, 0).UTC().Format(time.RFC3339)
			fmt.Fprintf(out, "%s: schema v%d, recorded by %s at %s, level %s, %d events\n\n",
				args[0], header.Schema, header.Tool, created, trace.Level(header.Level), len(events))
		}
		for _, ev := range events {
			if _, err := out.Write(trace.FormatEvent(ev.ToTrace(), format)); err != nil {
				return err
			}
		}
		return nil
	},
}
