package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <file>",
		Short: "Print the number of top-level elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := a.cfg.ReaderOptions().Open(data)
			if err != nil {
				return err
			}

			n, err := doc.Count()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
