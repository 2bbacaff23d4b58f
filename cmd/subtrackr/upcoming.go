package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/service"
)

func upcomingCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show renewals and trial endings in the next days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			events, err := svc.UpcomingEvents(days)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Nothing due in the next %d days.", days)))
				return nil
			}

			for _, event := range events {
				switch event.Kind {
				case service.EventTrialEnd:
					fmt.Printf("%s  %s %s\n",
						event.Date.Format("2006-01-02"),
						event.Subscription.Name,
						cli.WarningStyle.Render("trial ends"))
				default:
					fmt.Printf("%s  %s renews (%.2f %s)\n",
						event.Date.Format("2006-01-02"),
						event.Subscription.Name,
						event.Subscription.Cost,
						event.Subscription.Currency)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Days ahead to check")
	return cmd
}
