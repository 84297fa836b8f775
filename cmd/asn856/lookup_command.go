package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"asn856/internal/enrich"
	"asn856/internal/services"
	"asn856/internal/services/lotlookup"
)

type lookupOutput struct {
	Lot        string `json:"lot"`
	Expiration string `json:"expiration,omitempty"`
	Known      bool   `json:"known"`
	Reason     string `json:"reason,omitempty"`
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "lookup <lot>",
		Short: "Query the lot expiration service for one lot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := lotlookup.New(cfg.LotLookup.BaseURL, lotlookup.WithTimeout(cfg.LookupTimeout()))
			if err != nil {
				return fmt.Errorf("lot lookup: %w", err)
			}

			out := lookupOutput{Lot: enrich.NormalizeLotCode(args[0])}
			expiration, lookupErr := client.Expiration(cmd.Context(), out.Lot)
			switch {
			case lookupErr == nil && expiration != "":
				out.Expiration = expiration
				out.Known = true
			case lookupErr == nil:
				out.Reason = "no expiration recorded"
			case errors.Is(lookupErr, services.ErrValidation):
				return lookupErr
			default:
				out.Reason = services.Classify(lookupErr) + ": " + lookupErr.Error()
			}

			if jsonOut {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			if out.Known {
				fmt.Fprintln(w, renderStatusLine("Lot "+out.Lot, statusOK, out.Expiration, colorize))
			} else {
				fmt.Fprintln(w, renderStatusLine("Lot "+out.Lot, statusWarn, out.Reason, colorize))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
