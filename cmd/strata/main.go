package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"strata/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Typed-slot dispatch runtime and record tooling",
	Long:  `Strata is a typed dispatch runtime with patch guards, plus tools for inspecting and verifying its dispatch records`,
}

func main() {
	rootCmd.Version = version.Full()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(demoCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("trace", "", "trace output path ('-' for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|patch|call|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for ring mode")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
