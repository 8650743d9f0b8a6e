package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Validate documents and store them in the spool",
		Long: `Validate documents and store the accepted ones in the spool. Each stored
document's id is printed on its own line. Rejected files are reported and the
command fails after trying every file.

Example:
  bsonview ingest a.bson b.bson`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			s, err := a.openSpool()
			if err != nil {
				return err
			}
			defer s.Close()

			failed := 0
			for _, path := range args {
				data, err := readInput(cmd, path)
				if err != nil {
					return err
				}

				id, err := s.Put(data)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), id.String())
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents rejected", failed, len(args))
			}
			return nil
		},
	}
}
