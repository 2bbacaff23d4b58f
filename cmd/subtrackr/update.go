package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtrackr/subtrackr/internal/cli"
	"github.com/subtrackr/subtrackr/internal/service"
)

func updateCmd() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update <id> --set field=value [--set field=value ...]",
		Short: "Update fields of a subscription",
		Long: `Apply a partial update. Invalid fields are skipped individually and the
rest of the update still applies. An empty value clears the optional date
fields, e.g. --set trial_end_date=.

Fields: name, cost, currency, billing_cycle, start_date, status,
next_renewal_date, category, trial_end_date, notes, url, username,
service_provider, payment_method.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(sets) == 0 {
				return fmt.Errorf("nothing to update: pass at least one --set field=value")
			}

			fields := make(map[string]string, len(sets))
			for _, kv := range sets {
				key, value, found := strings.Cut(kv, "=")
				if !found {
					return fmt.Errorf("invalid --set %q: expected field=value", kv)
				}
				fields[strings.TrimSpace(key)] = value
			}

			patch, skipped := service.ParsePatch(fields)

			svc, err := initService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.Update(ctx, args[0], patch)
			if err != nil {
				return err
			}
			skipped = append(skipped, res.Skipped...)

			for _, sf := range skipped {
				fmt.Println(cli.WarningStyle.Render(
					fmt.Sprintf("⚠ skipped %s=%q: %s", sf.Field, sf.Value, sf.Reason)))
			}
			if res.Changed {
				fmt.Println(cli.SuccessStyle.Render(
					fmt.Sprintf("✓ Updated %s (%s)", args[0], strings.Join(res.ChangedFields, ", "))))
			} else {
				fmt.Println(cli.InfoStyle.Render("No effective changes."))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field to update as field=value (repeatable)")
	return cmd
}
