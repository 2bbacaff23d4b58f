package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
	"github.com/subtrackr/subtrackr/internal/renewal"
)

// Service owns the authoritative in-memory subscription set. All mutation
// goes through it so the status/trial/renewal-date consistency rules are
// applied atomically per operation; the mutex lets the CLI and TUI front ends
// share one instance.
type Service struct {
	store      Store
	settings   SettingsStore
	subs       map[string]*model.Subscription
	categories map[string]struct{}
	now        func() time.Time
	dataPath   string
	budget     Budget
	mu         sync.Mutex
}

// New loads settings and subscriptions and returns a ready service. A missing
// or corrupt backing store starts empty rather than failing; renewal dates
// are revalidated on load and persisted if any moved.
func New(ctx context.Context, store Store, settings SettingsStore) (*Service, error) {
	s := &Service{
		store:      store,
		settings:   settings,
		subs:       make(map[string]*model.Subscription),
		categories: make(map[string]struct{}),
		now:        time.Now,
	}

	cfg, err := settings.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = append([]string(nil), DefaultCategories...)
	}
	for _, c := range cfg.Categories {
		if c = strings.TrimSpace(c); c != "" {
			s.categories[c] = struct{}{}
		}
	}
	s.budget = cfg.Budget.Clone()
	s.dataPath = cfg.DataPath

	subs, err := store.Load(ctx)
	if err != nil {
		slog.Warn("could not load subscriptions, starting empty", "error", err)
		subs = nil
	}
	for i := range subs {
		sub := subs[i]
		if _, dup := s.subs[sub.ID]; dup {
			slog.Warn("skipping subscription with duplicate id", "id", sub.ID, "name", sub.Name)
			continue
		}
		s.subs[sub.ID] = &sub
	}

	if s.revalidateRenewalDates() {
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// Add validates and stores a new subscription. The id is generated when
// absent; trial consistency is applied and the renewal date computed before
// the record is persisted.
func (s *Service) Add(ctx context.Context, sub *model.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Currency == "" {
		sub.Currency = "USD"
	}
	if sub.Status == "" {
		sub.Status = model.StatusActive
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	if _, exists := s.subs[sub.ID]; exists {
		return fmt.Errorf("%w: %s", common.ErrDuplicateEntry, sub.ID)
	}

	sub.ApplyTrialConsistency()
	s.deriveRenewalDate(sub)

	stored := *sub
	s.subs[stored.ID] = &stored
	if err := s.persist(ctx); err != nil {
		delete(s.subs, stored.ID)
		return err
	}
	slog.Info("subscription added", "id", stored.ID, "name", stored.Name)
	return nil
}

// Get returns a copy of the subscription with the given id.
func (s *Service) Get(id string) (model.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return model.Subscription{}, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	return *sub, nil
}

// GetAll returns copies of every subscription, sorted by name then id.
func (s *Service) GetAll() []model.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Delete removes a subscription by id. A missing id reports ErrNotFound
// rather than failing hard.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	delete(s.subs, id)
	if err := s.persist(ctx); err != nil {
		s.subs[id] = sub
		return err
	}
	slog.Info("subscription deleted", "id", id, "name", sub.Name)
	return nil
}

// snapshot returns sorted copies of all subscriptions. Callers must hold mu.
func (s *Service) snapshot() []model.Subscription {
	out := make([]model.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// persist writes the full subscription set. Callers must hold mu.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		return fmt.Errorf("failed to save subscriptions: %w", err)
	}
	return nil
}

// deriveRenewalDate sets the renewal date for a new or reloaded subscription.
// Trials and cancelled subscriptions never carry one; an "other" cycle keeps
// whatever the caller supplied since it cannot be computed.
func (s *Service) deriveRenewalDate(sub *model.Subscription) {
	switch {
	case sub.Status == model.StatusTrial || sub.Status == model.StatusCancelled:
		sub.NextRenewalDate = nil
	case sub.BillingCycle == model.CycleOther:
		// Keep a manually supplied date, or nothing.
	default:
		next, err := renewal.Next(s.now(), sub.StartDate, sub.BillingCycle, nil)
		if err != nil {
			slog.Warn("could not compute renewal date", "id", sub.ID, "name", sub.Name, "error", err)
			sub.NextRenewalDate = nil
			return
		}
		sub.NextRenewalDate = &next
	}
}

// revalidateRenewalDates brings every loaded subscription back in line with
// the renewal-date invariants. Returns true when anything moved.
func (s *Service) revalidateRenewalDates() bool {
	changed := false
	today := s.now()
	for _, sub := range s.subs {
		switch {
		case sub.Status == model.StatusTrial || sub.Status == model.StatusCancelled:
			if sub.NextRenewalDate != nil {
				sub.NextRenewalDate = nil
				changed = true
			}
		case sub.BillingCycle == model.CycleOther:
			// Manual dates for unschedulable cycles are left as stored.
		default:
			next, err := renewal.Next(today, sub.StartDate, sub.BillingCycle, sub.NextRenewalDate)
			if err != nil {
				if !errors.Is(err, renewal.ErrUnschedulable) {
					slog.Warn("renewal recalculation failed", "id", sub.ID, "error", err)
				}
				if sub.NextRenewalDate != nil {
					sub.NextRenewalDate = nil
					changed = true
				}
				continue
			}
			if sub.NextRenewalDate == nil || !sub.NextRenewalDate.Equal(next) {
				sub.NextRenewalDate = &next
				changed = true
			}
		}
	}
	return changed
}
