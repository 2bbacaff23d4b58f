package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/common"
)

func deleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subscription",
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
				if errors.Is(err, common.ErrNotFound) {
					fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("No subscription with ID %s", args[0])))
					return nil
				}
				return err
			}

			// Confirm deletion
			if !force {
				fmt.Printf("Delete %q (%s)? (y/N): ", sub.Name, sub.ID)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := svc.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted %q", sub.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}
