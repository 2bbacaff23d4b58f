package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/renewal"
)

func forecastCmd() *cobra.Command {
	var (
		startFlag string
		endFlag   string
		days      int
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast subscription spending over a date range",
		Long: `Sum the cost of every expected renewal in a date range. Defaults to the
next 30 days; pass --start and --end for an explicit window.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start := renewal.Midnight(time.Now())
			end := start.AddDate(0, 0, days)
			var err error
			if startFlag != "" {
				if start, err = parseDateFlag(startFlag, "start"); err != nil {
					return err
				}
			}
			if endFlag != "" {
				if end, err = parseDateFlag(endFlag, "end"); err != nil {
					return err
				}
			}

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			total, err := svc.SpendingForecast(start, end)
			if err != nil {
				return err
			}

			fmt.Printf("Forecast %s → %s: %s\n",
				start.Format("2006-01-02"),
				end.Format("2006-01-02"),
				cli.SuccessStyle.Render(fmt.Sprintf("%.2f", total)))
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "Window start (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&endFlag, "end", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 30, "Window length in days when --end is not given")
	return cmd
}
