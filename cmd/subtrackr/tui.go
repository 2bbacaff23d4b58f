package main

import (
	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := initService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			return tui.Run(svc)
		},
	}
}
