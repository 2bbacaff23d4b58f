package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/subtrackr/subtrackr/internal/model"
	"github.com/subtrackr/subtrackr/internal/money"
)

// RenderSubscriptions writes a table of subscriptions with a normalized
// monthly total in the footer.
func RenderSubscriptions(w io.Writer, subs []model.Subscription) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Name", "Cost", "Cycle", "Category", "Status", "Next Renewal"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Cost", Align: text.AlignRight},
	})

	var monthlyTotal float64
	for i := range subs {
		sub := &subs[i]
		next := "-"
		if sub.NextRenewalDate != nil {
			next = sub.NextRenewalDate.Format("2006-01-02")
		}
		t.AppendRow(table.Row{
			shortID(sub.ID),
			sub.Name,
			fmt.Sprintf("%.2f %s", sub.Cost, sub.Currency),
			sub.BillingCycle,
			sub.DisplayCategory(),
			StatusStyle(sub.Status).Render(string(sub.Status)),
			next,
		})
		if sub.IsActive() {
			normalized, err := money.Normalize(sub.Cost, sub.BillingCycle, money.PeriodMonthly)
			if err == nil {
				monthlyTotal += normalized
			}
		}
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "monthly", fmt.Sprintf("%.2f", monthlyTotal)})
	t.Render()
}

// shortID truncates a UUID for display; full ids are shown by `show`.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
