package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"asn856/internal/flatfile"
)

type splitBlock struct {
	Index      int    `json:"index"`
	StartLine  int    `json:"start_line"`
	Lines      int    `json:"lines"`
	CustomerPO string `json:"customer_po"`
	Items      int    `json:"items"`
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "List the shipment blocks found for the trading partner",
		Args:  cobra.ExactArgs(1),
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
			summary := summarizeBlocks(blocks)
			if jsonOut {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			if len(summary) == 0 {
				fmt.Fprintln(out, "No shipments found")
				return nil
			}
			rows := make([][]string, 0, len(summary))
			for _, b := range summary {
				rows = append(rows, []string{
					strconv.Itoa(b.Index),
					strconv.Itoa(b.StartLine),
					strconv.Itoa(b.Lines),
					strconv.Itoa(b.Items),
					b.CustomerPO,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Line", "Lines", "Items", "Customer PO"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
				"", "", "", "", fmt.Sprintf("%d shipment(s)", len(summary)),
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

// summarizeBlocks reads the customer PO and item count straight from the raw
// lines so no lookups run.
func summarizeBlocks(blocks []flatfile.Block) []splitBlock {
	out := make([]splitBlock, 0, len(blocks))
	for i, b := range blocks {
		sb := splitBlock{Index: i + 1, StartLine: b.StartLine, Lines: len(b.Lines)}
		for _, line := range b.Lines {
			tag, tokens := flatfile.Tokenize(line)
			switch tag {
			case flatfile.TagHeader:
				if len(tokens) > 3 {
					sb.CustomerPO = tokens[3]
				}
			case flatfile.TagItem:
				sb.Items++
			}
		}
		out = append(out, sb)
	}
	return out
}
