package cmd

import (
	"log"

	"github.com/josephlewis42/ash/core/config"
	"github.com/spf13/cobra"
)

// initCmd intializes the interpreter configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Initialize the interpreter configuration, defaults to the current directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		return config.Initialize(dir, logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
