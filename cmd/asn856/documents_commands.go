package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"asn856/internal/store"
)

func newDocumentsCommand(ctx *commandContext) *cobra.Command {
	docsCmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Inspect recorded 856 documents",
	}
	docsCmd.AddCommand(newDocumentsListCommand(ctx))
	docsCmd.AddCommand(newDocumentsShowCommand(ctx))
	return docsCmd
}

func newDocumentsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently recorded documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				if docs == nil {
					docs = []store.Document{}
				}
				return writeJSON(cmd, docs)
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents recorded")
				return nil
			}
			rows := make([][]string, 0, len(docs))
			for _, d := range docs {
				rows = append(rows, []string{
					d.CustomerPO,
					d.FileName,
					d.InterchangeControl,
					strconv.Itoa(d.ItemCount),
					d.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Customer PO", "File", "ISA Control", "Items", "Recorded"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum documents to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newDocumentsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <customer-po>",
		Short: "Print a recorded document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrDocumentNotFound) {
				return fmt.Errorf("no document recorded for customer po %q", args[0])
			}
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, doc)
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc.Body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
