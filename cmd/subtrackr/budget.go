package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/money"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}

	cmd.AddCommand(showBudgetCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(setCategoryBudgetCmd())

	return cmd
}

func showBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show budget configuration and current spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := initService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			budget := svc.Budget()
			spend, err := svc.CostPerPeriod(money.PeriodMonthly)
			if err != nil {
				return err
			}

			if budget.Monthly.Global != nil {
				fmt.Printf("Global monthly budget: %.2f (current spend %.2f)\n", *budget.Monthly.Global, spend)
			} else {
				fmt.Printf("Global monthly budget: %s (current spend %.2f)\n", cli.SubtleStyle.Render("not set"), spend)
			}

			if len(budget.Monthly.Categories) > 0 {
				perCategory, err := svc.CostPerCategory(money.PeriodMonthly)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(budget.Monthly.Categories))
				for name := range budget.Monthly.Categories {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("  %-20s %8.2f (spend %.2f)\n", name, budget.Monthly.Categories[name], perCategory[name])
				}
			}
			return nil
		},
	}
}

func setBudgetCmd() *cobra.Command {
	var (
		amount float64
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set or clear the global monthly budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !clear && !cmd.Flags().Changed("amount") {
				return fmt.Errorf("pass --amount or --clear")
			}

			svc, err := initService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if clear {
				if err := svc.SetGlobalBudget(nil); err != nil {
					return err
				}
				fmt.Println(cli.SuccessStyle.Render("✓ Cleared global monthly budget"))
				return nil
			}
			if err := svc.SetGlobalBudget(&amount); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Global monthly budget set to %.2f", amount)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Budget amount")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the budget")
	return cmd
}

func setCategoryBudgetCmd() *cobra.Command {
	var (
		amount float64
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "set-category <name>",
		Short: "Set or clear a category's monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clear && !cmd.Flags().Changed("amount") {
				return fmt.Errorf("pass --amount or --clear")
			}

			svc, err := initService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if clear {
				if err := svc.SetCategoryBudget(args[0], nil); err != nil {
					return err
				}
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Cleared budget for %q", args[0])))
				return nil
			}
			if err := svc.SetCategoryBudget(args[0], &amount); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Budget for %q set to %.2f", args[0], amount)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Budget amount")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the budget")
	return cmd
}
