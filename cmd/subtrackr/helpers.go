package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/config"
	"github.com/subtrackr/subtrackr/internal/renewal"
	"github.com/subtrackr/subtrackr/internal/service"
	"github.com/subtrackr/subtrackr/internal/storage"
)

// initService wires the configured stores into a subscription service. The
// settings file may override the data path, so it is loaded first.
func initService(ctx context.Context) (*service.Service, error) {
	settingsPath := viper.GetString("settings.path")
	if settingsPath == "" {
		settingsPath = filepath.Join(config.DefaultDir(), "settings.json")
	}
	settings, err := storage.NewSettingsFile(config.ExpandPath(settingsPath))
	if err != nil {
		return nil, common.NewUserError("failed to open settings", err)
	}

	store, err := openStore(settings)
	if err != nil {
		return nil, common.NewUserError("failed to open subscription storage", err)
	}

	svc, err := service.New(ctx, store, settings)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}

// openStore picks the storage driver from config. The JSON file store is the
// default; SQLite is opt-in via storage.driver.
func openStore(settings *storage.SettingsFile) (service.Store, error) {
	driver := strings.ToLower(viper.GetString("storage.driver"))

	switch driver {
	case "sqlite":
		dbPath := viper.GetString("storage.sqlite_path")
		if dbPath == "" {
			dbPath = filepath.Join(config.DefaultDir(), "subtrackr.db")
		}
		return storage.NewSQLiteStore(config.ExpandPath(dbPath))
	case "", "json":
		dataPath := viper.GetString("storage.data_path")
		if cfg, err := settings.Load(); err == nil && cfg.DataPath != "" {
			dataPath = cfg.DataPath
		}
		if dataPath == "" {
			dataPath = filepath.Join(config.DefaultDir(), "subscriptions.json")
		}
		return storage.NewJSONFileStore(config.ExpandPath(dataPath))
	default:
		return nil, fmt.Errorf("unknown storage driver %q (use json or sqlite)", driver)
	}
}

// parseDateFlag parses a YYYY-MM-DD flag value.
func parseDateFlag(value, flag string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: expected YYYY-MM-DD, got %q", flag, value)
	}
	return renewal.Midnight(d), nil
}
