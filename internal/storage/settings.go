package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/service"
)

// SettingsFile persists application settings as JSON. Missing keys fall back
// to defaults, and the legacy flat budget shape ({"monthly": 150}) is
// migrated to the nested one on load.
type SettingsFile struct {
	path string
}

// NewSettingsFile creates a settings store backed by the given file path.
func NewSettingsFile(path string) (*SettingsFile, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: settings path must not be empty", common.ErrMissingConfig)
	}
	return &SettingsFile{path: path}, nil
}

// settingsDoc is the on-disk shape. Budget stays raw so both the current
// nested form and the legacy flat form can be accepted.
type settingsDoc struct {
	DataPath   string          `json:"data_path"`
	Categories []string        `json:"categories"`
	Budget     json.RawMessage `json:"budget"`
}

// Load reads the settings file, creating it with defaults when absent. A
// corrupt file logs a warning and yields defaults.
func (s *SettingsFile) Load() (service.Settings, error) {
	defaults := service.Settings{
		Categories: append([]string(nil), service.DefaultCategories...),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if saveErr := s.Save(defaults); saveErr != nil {
				slog.Warn("could not write default settings", "path", s.path, "error", saveErr)
			}
			return defaults, nil
		}
		slog.Warn("could not read settings, using defaults", "path", s.path, "error", err)
		return defaults, nil
	}

	var doc settingsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("settings file is corrupt, using defaults", "path", s.path, "error", err)
		return defaults, nil
	}

	out := service.Settings{
		DataPath:   doc.DataPath,
		Categories: doc.Categories,
		Budget:     parseBudget(doc.Budget),
	}
	if len(out.Categories) == 0 {
		out.Categories = append([]string(nil), service.DefaultCategories...)
	}
	return out, nil
}

// Save writes the settings file, creating parent directories as needed.
func (s *SettingsFile) Save(cfg service.Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// parseBudget accepts both budget shapes. Invalid or negative values are
// dropped with a warning rather than failing the load.
func parseBudget(raw json.RawMessage) service.Budget {
	var out service.Budget
	if len(raw) == 0 {
		return out
	}

	var wrapper struct {
		Monthly json.RawMessage `json:"monthly"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil || len(wrapper.Monthly) == 0 {
		return out
	}

	// Legacy form: "monthly" was a bare number meaning the global budget.
	var legacy float64
	if err := json.Unmarshal(wrapper.Monthly, &legacy); err == nil {
		if legacy >= 0 {
			out.Monthly.Global = &legacy
			slog.Info("migrated legacy budget format", "global", legacy)
		}
		return out
	}

	var nested struct {
		Global     *float64            `json:"global"`
		Categories map[string]*float64 `json:"categories"`
	}
	if err := json.Unmarshal(wrapper.Monthly, &nested); err != nil {
		slog.Warn("invalid budget settings, ignoring", "error", err)
		return out
	}

	if nested.Global != nil {
		if *nested.Global < 0 {
			slog.Warn("ignoring negative global budget", "value", *nested.Global)
		} else {
			out.Monthly.Global = nested.Global
		}
	}
	for name, value := range nested.Categories {
		if value == nil {
			continue
		}
		if *value < 0 {
			slog.Warn("ignoring negative category budget", "category", name, "value", *value)
			continue
		}
		if out.Monthly.Categories == nil {
			out.Monthly.Categories = make(map[string]float64)
		}
		out.Monthly.Categories[name] = *value
	}
	return out
}
