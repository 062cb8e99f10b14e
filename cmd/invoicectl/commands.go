package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sangkips/invoice-desk/internal/client"
	"github.com/sangkips/invoice-desk/internal/client/view"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
	"github.com/sangkips/invoice-desk/internal/logger"
	"github.com/spf13/cobra"
)

func newUICmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive invoice screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("ui")
			log.Debug().Str("api_url", opts.apiURL()).Msg("starting interactive session")

			session := view.NewSession(opts.client(), cmd.InOrStdin(), cmd.OutOrStdout(),
				view.WithFlashDuration(opts.flash()))
			return session.Run(cmd.Context())
		},
	}
}

func newListCmd(opts *cliOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				invoices, err := opts.client().List(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, invoices)
			}
			v := view.New(opts.client())
			if err := v.Mount(cmd.Context()); err != nil {
				return err
			}
			return v.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func newCreateCmd(opts *cliOptions) *cobra.Command {
	var (
		compCode  string
		amount    float64
		recurring bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice",
		Example: `  invoicectl create --comp-code ACME --amount 250 --recurring
  invoicectl create   # NEWCO, 0, not recurring`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CreateInvoiceRequest{
				CompCode:  compCode,
				Amount:    amount,
				Recurring: recurring,
			}
			if req.CompCode == "" {
				req.CompCode = entity.DefaultCompCode
			}
			inv, err := opts.client().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, inv)
		},
	}
	cmd.Flags().StringVar(&compCode, "comp-code", "", "company code (default NEWCO)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "invoice amount")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "mark the invoice recurring")
	return cmd
}

func newPayCmd(opts *cliOptions) *cobra.Command {
	return invoiceActionCmd("pay <id>", "Mark an invoice paid", opts, (*client.Client).Pay)
}

func newAutoBillCmd(opts *cliOptions) *cobra.Command {
	return invoiceActionCmd("auto-bill <id>", "Enable auto-billing", opts, (*client.Client).EnableAutoBill)
}

func newToggleRecurringCmd(opts *cliOptions) *cobra.Command {
	return invoiceActionCmd("toggle-recurring <id>", "Flip the recurring flag", opts, (*client.Client).ToggleRecurring)
}

func newCardCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "card <id> [last4]",
		Short: "Update the stored card digits (blank stores 0000)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			last4 := ""
			if len(args) > 1 {
				last4 = args[1]
			}
			inv, err := opts.client().UpdateCard(cmd.Context(), id, last4)
			if err != nil {
				return err
			}
			return printJSON(cmd, inv)
		},
	}
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, view.DeletePrompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			inv, err := opts.client().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, inv)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

type invoiceAction func(c *client.Client, ctx context.Context, id int64) (*entity.Invoice, error)

func invoiceActionCmd(use, short string, opts *cliOptions, action invoiceAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inv, err := action(opts.client(), cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, inv)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid invoice id %q", s)
	}
	return id, nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
