package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"github.com/jgoulah/fleetdash/pkg/models"
	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DB reads the hours and fuel logs from a SQLite file maintained elsewhere.
// The connection is opened read-only; nothing here writes.
type DB struct {
	conn       *sql.DB
	hoursTable string
	fuelTable  string
}

// New opens dbPath read-only. A missing file yields a DB whose logs are empty.
func New(dbPath, hoursTable, fuelTable string) (*DB, error) {
	for _, t := range []string{hoursTable, fuelTable} {
		if !tableName.MatchString(t) {
			return nil, fmt.Errorf("invalid table name %q", t)
		}
	}

	db := &DB{hoursTable: hoursTable, fuelTable: fuelTable}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("checking database file: %w", err)
	}

	conn, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.conn = conn
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// hasTable reports whether the named table exists
func (db *DB) hasTable(ctx context.Context, name string) (bool, error) {
	if db.conn == nil {
		return false, nil
	}

	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("looking up table %s: %w", name, err)
	}
	return n > 0, nil
}

// LoadHours retrieves every hours log row in storage order
func (db *DB) LoadHours(ctx context.Context) ([]models.HoursRow, error) {
	ok, err := db.hasTable(ctx, db.hoursTable)
	if err != nil || !ok {
		return nil, err
	}

	query := fmt.Sprintf(`
	SELECT machine, date, operator, meter_start, meter_end, hours_worked
	FROM %s
	ORDER BY rowid
	`, db.hoursTable)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying hours log: %w", err)
	}
	defer rows.Close()

	var results []models.HoursRow
	for rows.Next() {
		var machine, date, operator, start, end, worked sql.NullString
		if err := rows.Scan(&machine, &date, &operator, &start, &end, &worked); err != nil {
			return nil, fmt.Errorf("scanning hours row: %w", err)
		}

		results = append(results, models.HoursRow{
			Machine:     machine.String,
			Date:        date.String,
			Operator:    operator.String,
			MeterStart:  start.String,
			MeterEnd:    end.String,
			HoursWorked: worked.String,
		})
	}

	return results, rows.Err()
}

// LoadFuel retrieves every fuel log row in storage order
func (db *DB) LoadFuel(ctx context.Context) ([]models.FuelRow, error) {
	ok, err := db.hasTable(ctx, db.fuelTable)
	if err != nil || !ok {
		return nil, err
	}

	query := fmt.Sprintf(`
	SELECT machine, date, liters, supplier, site, notes
	FROM %s
	ORDER BY rowid
	`, db.fuelTable)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying fuel log: %w", err)
	}
	defer rows.Close()

	var results []models.FuelRow
	for rows.Next() {
		var machine, date, liters, supplier, site, notes sql.NullString
		if err := rows.Scan(&machine, &date, &liters, &supplier, &site, &notes); err != nil {
			return nil, fmt.Errorf("scanning fuel row: %w", err)
		}

		results = append(results, models.FuelRow{
			Machine:  machine.String,
			Date:     date.String,
			Liters:   liters.String,
			Supplier: supplier.String,
			Site:     site.String,
			Notes:    notes.String,
		})
	}

	return results, rows.Err()
}
