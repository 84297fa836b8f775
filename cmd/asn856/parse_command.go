package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asn856/internal/asn"
	"asn856/internal/services"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var index int
	var all bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print clean shipment records as JSON",
		Long: "Split the export, decode each shipment, resolve lot expirations, and print the\n" +
			"clean record. Prints the first shipment unless --index or --all is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := ctx.newProcessor(nil)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer file.Close()

			blocks, err := proc.Split(file)
			if err != nil {
				return err
			}
			if len(blocks) == 0 {
				return fmt.Errorf("no shipments found in %s", args[0])
			}

			runCtx := cmd.Context()
			if all {
				records := make([]asn.ShipmentRecord, 0, len(blocks))
				for i, b := range blocks {
					rec, _ := proc.Record(services.WithShipmentIndex(runCtx, i+1), b)
					records = append(records, *rec)
				}
				return writeJSON(cmd, records)
			}

			if index < 1 || index > len(blocks) {
				return fmt.Errorf("--index %d out of range (1-%d)", index, len(blocks))
			}
			rec, _ := proc.Record(services.WithShipmentIndex(runCtx, index), blocks[index-1])
			return writeJSON(cmd, rec)
		},
	}
	cmd.Flags().IntVar(&index, "index", 1, "1-based shipment to print")
	cmd.Flags().BoolVar(&all, "all", false, "Print every shipment")
	return cmd
}
