package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/bsonview/pkg/bson"
	"github.com/ssargent/bsonview/pkg/inspect"
)

func newDumpCmd() *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print every element of a document",
		Long: `Print every element of a document, descending into nested documents
and arrays.

Examples:
  bsonview dump payload.bson
  bsonview dump -o json payload.bson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			output, _ := cmd.Flags().GetString("output")

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := a.cfg.ReaderOptions().Open(data)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, output)
		},
	}

	dumpCmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	return dumpCmd
}

func writeDocument(w io.Writer, doc bson.Document, output string) error {
	fields, err := inspect.Describe(doc)
	if err != nil {
		return err
	}

	switch output {
	case "table":
		return inspect.WriteTree(w, fields)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
