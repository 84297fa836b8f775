package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"asn856/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var toStdout bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate an 856 document for every shipment in the export",
		Long: "Convert every shipment block for the configured trading partner. Documents are\n" +
			"recorded in the document store and written to paths.output_dir. The command\n" +
			"exits non-zero when any shipment could not be encoded, after the whole batch ran.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []pipeline.Option
			if dryRun {
				opts = append(opts, pipeline.WithDryRun(true))
			}

			st, err := ctx.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			proc, err := ctx.newProcessor(st, opts...)
			if err != nil {
				return err
			}
			report, err := proc.GenerateFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			case toStdout:
				writeDocuments(out, report)
			default:
				writeGenerateSummary(out, report)
			}

			if report.Failed() {
				return fmt.Errorf("%d of %d shipment(s) failed", report.Count(pipeline.StatusFailed), len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Encode without recording, writing, or archiving")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the generated documents instead of a summary")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run report as JSON")
	return cmd
}

func writeDocuments(w io.Writer, report *pipeline.Report) {
	for _, res := range report.Results {
		if res.Document == nil {
			continue
		}
		fmt.Fprintln(w, res.Document.Text())
	}
}

func writeGenerateSummary(w io.Writer, report *pipeline.Report) {
	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No shipments found")
		return
	}
	colorize := shouldColorize(w)
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		items := ""
		if res.Document != nil {
			items = strconv.Itoa(res.Document.ItemCount)
		}
		notes := strings.Join(res.Warnings, "; ")
		if res.Err != nil {
			notes = res.Error
		}
		rows = append(rows, []string{
			strconv.Itoa(res.Index),
			res.CustomerPO,
			res.FileName,
			items,
			string(res.Status),
			notes,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Customer PO", "File", "Items", "Status", "Notes"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))

	generated := report.Count(pipeline.StatusGenerated)
	duplicates := report.Count(pipeline.StatusDuplicate)
	failed := report.Count(pipeline.StatusFailed)
	kind := statusOK
	switch {
	case failed > 0:
		kind = statusError
	case duplicates > 0 || !report.Clean():
		kind = statusWarn
	}
	msg := fmt.Sprintf("%d generated, %d duplicate, %d failed", generated, duplicates, failed)
	if report.DryRun {
		msg += " (dry run)"
	}
	fmt.Fprintln(w, renderStatusLine("Run "+shortRunID(report.RunID), kind, msg, colorize))
	for _, res := range report.Results {
		if k := resultKind(res); k != statusOK {
			fmt.Fprintln(w, renderStatusLine("Shipment "+strconv.Itoa(res.Index), k, res.CustomerPO, colorize))
		}
	}
	if report.ArchivedTo != "" {
		fmt.Fprintln(w, renderStatusLine("Archive", statusInfo, report.ArchivedTo, colorize))
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
