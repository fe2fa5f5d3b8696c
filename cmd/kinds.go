package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(kindsCmd)
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Lists the ornament kinds a score may use",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tINTERVAL\tREALIZABLE")
		for _, k := range kindsList() {
			size := k.Size
			if size == "" {
				size = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%t\n", k.Name, size, k.Realizable)
		}
		return w.Flush()
	},
}
