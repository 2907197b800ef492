package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/ash/commands"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the builtins
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the interpreter.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, builtin := range commands.DefaultRegistry().Builtins() {
			fmt.Fprintf(w, "%s\t%s\n", builtin.Use, builtin.Short)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
