// Package service implements the subscription service: the owner of the
// in-memory subscription set, renewal bookkeeping, and financial aggregation.
package service

import (
	"context"

	"github.com/subtrackr/subtrackr/internal/model"
)

// Store defines the contract for subscription persistence. Implementations
// load the full record set at startup and overwrite it on each mutation.
type Store interface {
	Load(ctx context.Context) ([]model.Subscription, error)
	Save(ctx context.Context, subs []model.Subscription) error
	Close() error
}

// SettingsStore persists application settings (categories and budgets).
type SettingsStore interface {
	Load() (Settings, error)
	Save(Settings) error
}

// Settings holds the user-configurable application state.
type Settings struct {
	Budget     Budget   `json:"budget"`
	DataPath   string   `json:"data_path"`
	Categories []string `json:"categories"`
}

// DefaultCategories is the category list used when none is configured.
var DefaultCategories = []string{"Software", "Streaming", "Utilities", "Other"}

// Budget holds spending thresholds. Only monthly budgets are supported.
type Budget struct {
	Monthly MonthlyBudget `json:"monthly"`
}

// MonthlyBudget layers optional per-category limits over an optional global
// limit. A missing map entry means no budget is set for that category.
type MonthlyBudget struct {
	Global     *float64           `json:"global"`
	Categories map[string]float64 `json:"categories"`
}

// Clone returns a deep copy so callers cannot alias the service's budget.
func (b Budget) Clone() Budget {
	var out Budget
	if b.Monthly.Global != nil {
		v := *b.Monthly.Global
		out.Monthly.Global = &v
	}
	if b.Monthly.Categories != nil {
		out.Monthly.Categories = make(map[string]float64, len(b.Monthly.Categories))
		for k, v := range b.Monthly.Categories {
			out.Monthly.Categories[k] = v
		}
	}
	return out
}
