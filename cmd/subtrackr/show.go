package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a subscription's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			sub, err := svc.Get(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID:\t%s\n", sub.ID)
			fmt.Fprintf(w, "Name:\t%s\n", sub.Name)
			fmt.Fprintf(w, "Cost:\t%.2f %s\n", sub.Cost, sub.Currency)
			fmt.Fprintf(w, "Cycle:\t%s\n", sub.BillingCycle)
			fmt.Fprintf(w, "Start date:\t%s\n", sub.StartDate.Format("2006-01-02"))
			fmt.Fprintf(w, "Status:\t%s\n", cli.StatusStyle(sub.Status).Render(string(sub.Status)))
			fmt.Fprintf(w, "Category:\t%s\n", sub.DisplayCategory())
			if sub.NextRenewalDate != nil {
				fmt.Fprintf(w, "Next renewal:\t%s\n", sub.NextRenewalDate.Format("2006-01-02"))
			}
			if sub.TrialEndDate != nil {
				fmt.Fprintf(w, "Trial ends:\t%s\n", sub.TrialEndDate.Format("2006-01-02"))
			}
			if sub.URL != "" {
				fmt.Fprintf(w, "URL:\t%s\n", sub.URL)
			}
			if sub.Username != "" {
				fmt.Fprintf(w, "Username:\t%s\n", sub.Username)
			}
			if sub.ServiceProvider != "" {
				fmt.Fprintf(w, "Provider:\t%s\n", sub.ServiceProvider)
			}
			if sub.PaymentMethod != "" {
				fmt.Fprintf(w, "Payment method:\t%s\n", sub.PaymentMethod)
			}
			if sub.Notes != "" {
				fmt.Fprintf(w, "Notes:\t%s\n", sub.Notes)
			}
			return nil
		},
	}
}
