package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hasta",
		Short: "Hasta - deterministic hand gesture classification",
		Long: `Hasta classifies hand gestures from 21-point hand landmarks.

It evaluates the classifier against a corpus of labeled snapshots,
tracks accuracy across revisions, and serves live classification from
a camera feed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEvalCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newPromoteCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
