package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bsonview/pkg/inspect"
)

var errInvalidDocument = errors.New("document is not valid")

func newValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file holds a well-formed document",
		Long: `Check that a file holds a well-formed document. Use "-" to read stdin.

By default only the outer structure is checked. --strict also walks every
element and nested document.

Examples:
  bsonview validate payload.bson
  bsonview validate --strict -o json payload.bson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			output, _ := cmd.Flags().GetString("output")

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			reader := a.cfg.ReaderOptions()
			if cmd.Flags().Changed("strict") {
				reader.Strict, _ = cmd.Flags().GetBool("strict")
			}

			report := inspect.Check(reader, data)
			if !report.Valid {
				a.log.WithField("file", args[0]).WithField("reason", report.Error).Warn("rejected document")
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			default:
				if report.Valid {
					fmt.Fprintf(cmd.OutOrStdout(), "valid: %d bytes, %d elements\n", report.Size, report.Elements)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", report.Error)
				}
			}

			if !report.Valid {
				return errInvalidDocument
			}
			return nil
		},
	}

	validateCmd.Flags().Bool("strict", false, "Validate every element and nested document")
	validateCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	return validateCmd
}
