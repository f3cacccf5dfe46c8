package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// seed creates a SQLite file the way the external logging system would.
func seed(t *testing.T, path string, stmts ...string) {
	t.Helper()
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening seed db: %v", err)
	}
	defer conn.Close()

	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			t.Fatalf("seeding %q: %v", s, err)
		}
	}
}

func TestLoadLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	seed(t, path,
		`CREATE TABLE hours_log (machine TEXT, date TEXT, operator TEXT, meter_start REAL, meter_end REAL, hours_worked REAL)`,
		`CREATE TABLE fuel_log (machine TEXT, date TEXT, liters REAL, supplier TEXT, site TEXT, notes TEXT)`,
		`INSERT INTO hours_log VALUES ('M1', '10/01/2024', 'OpA', 100, 108, 8)`,
		`INSERT INTO hours_log VALUES ('M2', '11/01/2024', NULL, 5.5, 9, 'n/a')`,
		`INSERT INTO fuel_log VALUES ('M1', '10/01/2024', 50.5, 'SupA', 'SiteX', NULL)`,
	)

	db, err := New(path, "hours_log", "fuel_log")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer db.Close()

	hours, err := db.LoadHours(context.Background())
	if err != nil {
		t.Fatalf("LoadHours error: %v", err)
	}
	if len(hours) != 2 {
		t.Fatalf("got %d hours rows, want 2", len(hours))
	}
	if hours[0].Machine != "M1" || hours[0].HoursWorked != "8" || hours[0].MeterEnd != "108" {
		t.Errorf("hours row 0 = %+v", hours[0])
	}
	if hours[1].Operator != "" || hours[1].MeterStart != "5.5" || hours[1].HoursWorked != "n/a" {
		t.Errorf("hours row 1 = %+v", hours[1])
	}

	fuel, err := db.LoadFuel(context.Background())
	if err != nil {
		t.Fatalf("LoadFuel error: %v", err)
	}
	if len(fuel) != 1 {
		t.Fatalf("got %d fuel rows, want 1", len(fuel))
	}
	if fuel[0].Liters != "50.5" || fuel[0].Site != "SiteX" || fuel[0].Notes != "" {
		t.Errorf("fuel row = %+v", fuel[0])
	}
}

func TestMissingTableIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	seed(t, path,
		`CREATE TABLE horas (machine TEXT, date TEXT, operator TEXT, meter_start REAL, meter_end REAL, hours_worked REAL)`,
		`INSERT INTO horas VALUES ('M1', '10/01/2024', 'OpA', 1, 2, 1)`,
	)

	db, err := New(path, "horas", "fuel_log")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer db.Close()

	hours, err := db.LoadHours(context.Background())
	if err != nil || len(hours) != 1 {
		t.Errorf("LoadHours = %v, %v; want one row", hours, err)
	}
	fuel, err := db.LoadFuel(context.Background())
	if err != nil || len(fuel) != 0 {
		t.Errorf("LoadFuel = %v, %v; want empty", fuel, err)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "absent.db"), "hours_log", "fuel_log")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer db.Close()

	hours, err := db.LoadHours(context.Background())
	if err != nil || len(hours) != 0 {
		t.Errorf("LoadHours = %v, %v; want empty", hours, err)
	}
}

func TestRejectsUnsafeTableName(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "x.db"), "hours; DROP TABLE x", "fuel_log"); err == nil {
		t.Fatal("expected error for invalid table name")
	}
}
