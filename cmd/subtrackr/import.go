package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/storage"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import subscriptions from a JSON export",
		Long: `Read a JSON array of subscription records and add them. Malformed records
and duplicate ids are skipped; everything else is imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			subs, malformed, err := storage.DecodeSubscriptions(data)
			if err != nil {
				return err
			}

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			bar := progressbar.Default(int64(len(subs)), "importing")
			imported, duplicates := 0, 0
			for i := range subs {
				sub := subs[i]
				if err := svc.Add(ctx, &sub); err != nil {
					if errors.Is(err, common.ErrDuplicateEntry) {
						duplicates++
						_ = bar.Add(1)
						continue
					}
					return fmt.Errorf("failed to import %q: %w", sub.Name, err)
				}
				imported++
				_ = bar.Add(1)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d subscriptions", imported)))
			if duplicates > 0 {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("⚠ %d duplicates skipped", duplicates)))
			}
			if malformed > 0 {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("⚠ %d malformed records skipped", malformed)))
			}
			return nil
		},
	}
}
