package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/bsonview/pkg/inspect"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a dotted path",
		Long: `Print the value at a dotted path such as "sensor.readings.0". Array
elements are addressed by their index key.

Example:
  bsonview get payload.bson sensor.id`,
		Args: cobra.ExactArgs(2),
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

			elem, err := doc.LookupPath(strings.Split(args[1], ".")...)
			if err != nil {
				return err
			}
			field, err := inspect.DescribeElement(elem)
			if err != nil {
				return err
			}

			if field.Fields != nil {
				return inspect.WriteTree(cmd.OutOrStdout(), field.Fields)
			}
			fmt.Fprintln(cmd.OutOrStdout(), inspect.FormatValue(field.Value))
			return nil
		},
	}
}
