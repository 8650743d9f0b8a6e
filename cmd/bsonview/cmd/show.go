package cmd

import (
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a spooled document",
		Long: `Print a spooled document as a table, as JSON, or as the stored bytes.

Examples:
  bsonview show 2DDo4ZRbXbNSezwD1ceD4fVbJbI
  bsonview show -o raw 2DDo4ZRbXbNSezwD1ceD4fVbJbI > doc.bson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			output, _ := cmd.Flags().GetString("output")

			id, err := ksuid.Parse(args[0])
			if err != nil {
				return err
			}

			s, err := a.openSpool()
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.Get(id)
			if err != nil {
				return err
			}

			if output == "raw" {
				_, err := cmd.OutOrStdout().Write(doc.Bytes())
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, output)
		},
	}

	showCmd.Flags().StringP("output", "o", "table", "Output format: table, json or raw")
	return showCmd
}
