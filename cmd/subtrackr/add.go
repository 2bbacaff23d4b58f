package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/model"
)

func addCmd() *cobra.Command {
	var (
		cost            float64
		currency        string
		cycle           string
		start           string
		category        string
		status          string
		trialEnd        string
		nextRenewal     string
		notes           string
		url             string
		username        string
		serviceProvider string
		paymentMethod   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new subscription",
		Long:  `Record a new subscription. The next renewal date is computed from the start date and billing cycle.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			startDate, err := parseDateFlag(start, "start")
			if err != nil {
				return err
			}
			cycleVal, err := model.ParseBillingCycle(cycle)
			if err != nil {
				return err
			}
			statusVal, err := model.ParseStatus(status)
			if err != nil {
				return err
			}

			sub := model.Subscription{
				Name:            args[0],
				Cost:            cost,
				Currency:        currency,
				BillingCycle:    cycleVal,
				StartDate:       startDate,
				Status:          statusVal,
				Category:        category,
				Notes:           notes,
				URL:             url,
				Username:        username,
				ServiceProvider: serviceProvider,
				PaymentMethod:   paymentMethod,
			}
			if trialEnd != "" {
				d, err := parseDateFlag(trialEnd, "trial-end")
				if err != nil {
					return err
				}
				sub.TrialEndDate = &d
			}
			if nextRenewal != "" {
				d, err := parseDateFlag(nextRenewal, "next-renewal")
				if err != nil {
					return err
				}
				sub.NextRenewalDate = &d
			}

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.Add(ctx, &sub); err != nil {
				return fmt.Errorf("failed to add subscription: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Added %q (ID: %s)", sub.Name, sub.ID)))
			if sub.NextRenewalDate != nil {
				fmt.Printf("  Next renewal: %s\n", sub.NextRenewalDate.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&cost, "cost", 0, "Cost per billing cycle")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&cycle, "cycle", "monthly", "Billing cycle (monthly, yearly, quarterly, bi-annually, weekly, other)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Category label")
	cmd.Flags().StringVar(&status, "status", "active", "Status (active, inactive, cancelled, trial)")
	cmd.Flags().StringVar(&trialEnd, "trial-end", "", "Trial end date (YYYY-MM-DD); forces trial status")
	cmd.Flags().StringVar(&nextRenewal, "next-renewal", "", "Manual next renewal date for 'other' cycles (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&url, "url", "", "Service URL")
	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&serviceProvider, "provider", "", "Service provider")
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "Payment method")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
