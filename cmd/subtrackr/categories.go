package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/money"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage subscription categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with their monthly spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			costs, err := svc.CostPerCategory(money.PeriodMonthly)
			if err != nil {
				return err
			}

			for _, name := range svc.Categories() {
				line := fmt.Sprintf("%-20s %8.2f/mo", name, costs[name])
				if budget := svc.CategoryBudget(name); budget != nil {
					line += cli.SubtleStyle.Render(fmt.Sprintf("  (budget %.2f)", *budget))
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := initService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			added, err := svc.AddCategory(args[0])
			if err != nil {
				return err
			}
			if !added {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Category %q already exists.", args[0])))
				return nil
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Added category %q", args[0])))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long:  `Delete a category. Subscriptions using it move to "Uncategorized".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			deleted, err := svc.DeleteCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("Category %q not found.", args[0])))
				return nil
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted category %q", args[0])))
			return nil
		},
	}
}
