package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
)

func alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Check spending against configured budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			alerts, err := svc.CheckBudgetAlerts()
			if err != nil {
				return err
			}
			if len(alerts) == 0 {
				fmt.Println(cli.SuccessStyle.Render("✓ Spending is within budget."))
				return nil
			}
			for _, alert := range alerts {
				fmt.Println(cli.WarningStyle.Render("! " + alert))
			}
			return nil
		},
	}
}
