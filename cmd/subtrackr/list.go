package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/model"
)

func listCmd() *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Long:  `Display all subscriptions with their normalized monthly total.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			subs := svc.GetAll()
			if statusFilter != "" {
				status, err := model.ParseStatus(statusFilter)
				if err != nil {
					return err
				}
				filtered := subs[:0]
				for _, sub := range subs {
					if sub.Status == status {
						filtered = append(filtered, sub)
					}
				}
				subs = filtered
			}

			if len(subs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No subscriptions found. Use 'subtrackr add' to create one."))
				return nil
			}
			cli.RenderSubscriptions(os.Stdout, subs)
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show subscriptions with this status")
	return cmd
}
