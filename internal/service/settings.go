package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
)

// knownCategories returns the sorted union of configured categories and
// budget keys. Callers must hold mu.
func (s *Service) knownCategories() []string {
	set := make(map[string]struct{}, len(s.categories))
	for c := range s.categories {
		set[c] = struct{}{}
	}
	for c := range s.budget.Monthly.Categories {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Categories returns the sorted list of known category names.
func (s *Service) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.knownCategories()
}

// AddCategory registers a new category name. It reports false for blank names
// and names that already exist.
func (s *Service) AddCategory(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[name]; exists {
		return false, nil
	}
	s.categories[name] = struct{}{}
	if err := s.persistSettings(); err != nil {
		delete(s.categories, name)
		return false, err
	}
	slog.Info("category added", "category", name)
	return true, nil
}

// DeleteCategory removes a category, drops any budget set for it, and moves
// subscriptions using it to the uncategorized bucket. The uncategorized
// bucket itself cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == model.UncategorizedLabel {
		return false, fmt.Errorf("%w: cannot delete %q", common.ErrInvalidCategory, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settingsChanged := false
	if _, ok := s.categories[name]; ok {
		delete(s.categories, name)
		settingsChanged = true
	}
	if _, ok := s.budget.Monthly.Categories[name]; ok {
		delete(s.budget.Monthly.Categories, name)
		settingsChanged = true
	}

	subsChanged := false
	for _, sub := range s.subs {
		if sub.Category == name {
			sub.Category = model.UncategorizedLabel
			subsChanged = true
		}
	}

	if settingsChanged {
		if err := s.persistSettings(); err != nil {
			return false, err
		}
	}
	if subsChanged {
		if err := s.persist(ctx); err != nil {
			return false, err
		}
	}
	if !settingsChanged && !subsChanged {
		return false, nil
	}
	slog.Info("category deleted", "category", name)
	return true, nil
}

// Budget returns a copy of the current budget configuration.
func (s *Service) Budget() Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Clone()
}

// SetGlobalBudget sets or clears (nil) the global monthly budget.
func (s *Service) SetGlobalBudget(amount *float64) error {
	if amount != nil && *amount < 0 {
		return fmt.Errorf("%w: %.2f", common.ErrInvalidBudget, *amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.budget.Monthly.Global
	if amount == nil {
		s.budget.Monthly.Global = nil
	} else {
		v := *amount
		s.budget.Monthly.Global = &v
	}
	if err := s.persistSettings(); err != nil {
		s.budget.Monthly.Global = prev
		return err
	}
	return nil
}

// SetCategoryBudget sets or clears (nil) the monthly budget for a category.
// Setting a budget also registers the category name.
func (s *Service) SetCategoryBudget(category string, amount *float64) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("%w: empty name", common.ErrInvalidCategory)
	}
	if amount != nil && *amount < 0 {
		return fmt.Errorf("%w: %.2f", common.ErrInvalidBudget, *amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budget.Monthly.Categories == nil {
		s.budget.Monthly.Categories = make(map[string]float64)
	}
	if amount == nil {
		delete(s.budget.Monthly.Categories, category)
	} else {
		s.budget.Monthly.Categories[category] = *amount
		if category != model.UncategorizedLabel {
			s.categories[category] = struct{}{}
		}
	}
	return s.persistSettings()
}

// CategoryBudget returns the configured monthly budget for a category, or nil
// when none is set.
func (s *Service) CategoryBudget(category string) *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.budget.Monthly.Categories[strings.TrimSpace(category)]; ok {
		return &v
	}
	return nil
}

// persistSettings writes the current settings state. Callers must hold mu.
func (s *Service) persistSettings() error {
	cats := make([]string, 0, len(s.categories))
	for c := range s.categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	if err := s.settings.Save(Settings{
		DataPath:   s.dataPath,
		Categories: cats,
		Budget:     s.budget.Clone(),
	}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
