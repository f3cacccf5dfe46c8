package source

import (
	"context"
	"fmt"

	"github.com/jgoulah/fleetdash/internal/config"
	"github.com/jgoulah/fleetdash/internal/database"
	"github.com/jgoulah/fleetdash/pkg/models"
)

// Logs is a readable pair of hours and fuel logs
type Logs interface {
	LoadHours(ctx context.Context) ([]models.HoursRow, error)
	LoadFuel(ctx context.Context) ([]models.FuelRow, error)
	Close() error
}

// Close is a no-op; files are opened per load.
func (s *CSV) Close() error { return nil }

// Open returns the log storage selected by cfg: SQLite when sqlite_path is
// set, CSV files otherwise.
func Open(cfg *config.Config) (Logs, error) {
	if cfg.Sources.SQLitePath != "" {
		db, err := database.New(cfg.Sources.SQLitePath, cfg.GetHoursTable(), cfg.GetFuelTable())
		if err != nil {
			return nil, fmt.Errorf("opening sqlite logs: %w", err)
		}
		return db, nil
	}
	return NewCSV(cfg.GetHoursCSV(), cfg.GetFuelCSV()), nil
}
