package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List spooled documents in arrival order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			s, err := a.openSpool()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.List(limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tSIZE\tRECEIVED\n")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", e.ID, e.Size, e.Received.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	listCmd.Flags().IntP("limit", "n", 0, "Maximum number of documents to list (0 for all)")
	return listCmd
}
