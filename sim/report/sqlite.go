package report

import (
	"database/sql"
	"fmt"
	"math"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/bankqueue/sim"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	run_id               TEXT PRIMARY KEY,
	started_at           TEXT NOT NULL,
	num_customers        INTEGER NOT NULL,
	seed                 INTEGER NOT NULL,
	customers_served     INTEGER NOT NULL,
	average_waiting_time REAL,
	average_system_time  REAL,
	server_utilization   REAL,
	max_queue_length     INTEGER NOT NULL,
	total_elapsed_time   REAL,
	sim_ended_time       REAL
)`

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
	run_id         TEXT NOT NULL REFERENCES runs(run_id),
	id             INTEGER NOT NULL,
	arrival_time   REAL NOT NULL,
	service_start  REAL NOT NULL,
	service_time   REAL NOT NULL,
	waiting_time   REAL NOT NULL,
	departure_time REAL NOT NULL,
	time_in_system REAL NOT NULL,
	PRIMARY KEY (run_id, id)
)`

const insertRun = `INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertCustomer = `INSERT INTO customers VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Store appends runs and their customer records to a SQLite database.
// Safe for concurrent use; database/sql serializes access to the connection.
type Store struct {
	db        *sql.DB
	path      string
	batchSize int
}

// OpenStore opens (creating if needed) the database at path and its tables.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening result store %s: %w", path, err)
	}
	// One writer at a time; SQLite locks the whole file anyway.
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{createRunsTable, createCustomersTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating result tables: %w", err)
		}
	}
	logrus.Debugf("Result store opened at %s", path)
	return &Store{db: db, path: path, batchSize: 10000}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts the run row and all customer records. Customers are written
// in transactions of at most batchSize rows; the run row goes in the first one.
func (s *Store) SaveRun(info RunInfo, m *sim.Metrics) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	_, err = tx.Exec(insertRun,
		info.RunID,
		info.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		info.CustomerCount,
		info.Seed,
		m.CustomersServed,
		nullable(m.AverageWaitingTime),
		nullable(m.AverageSystemTime),
		nullable(m.ServerUtilization),
		m.MaxQueueLength,
		nullable(m.TotalElapsedTime),
		nullable(m.SimEndedTime),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting run %s: %w", info.RunID, err)
	}

	records := m.Records
	for {
		n := min(len(records), s.batchSize)
		if err := s.insertCustomers(tx, info.RunID, records[:n]); err != nil {
			tx.Rollback()
			return err
		}
		records = records[n:]
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing run %s: %w", info.RunID, err)
		}
		if len(records) == 0 {
			return nil
		}
		if tx, err = s.db.Begin(); err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
	}
}

func (s *Store) insertCustomers(tx *sql.Tx, runID string, records []sim.Record) error {
	stmt, err := tx.Prepare(insertCustomer)
	if err != nil {
		return fmt.Errorf("preparing customer insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range records {
		_, err := stmt.Exec(runID, r.ID, r.ArrivalTime, r.ServiceStart, r.ServiceDuration,
			r.WaitingTime, r.DepartureTime, r.SystemTime)
		if err != nil {
			return fmt.Errorf("inserting customer %d of run %s: %w", r.ID, runID, err)
		}
	}
	return nil
}

// RunRow is one row of the runs table.
type RunRow struct {
	RunID             string
	Seed              int64
	CustomersServed   int
	AverageWaitTime   sql.NullFloat64
	ServerUtilization sql.NullFloat64
	MaxQueueLength    int
}

// Runs returns every stored run ordered by seed.
func (s *Store) Runs() ([]RunRow, error) {
	rows, err := s.db.Query(`SELECT run_id, seed, customers_served, average_waiting_time,
		server_utilization, max_queue_length FROM runs ORDER BY seed, run_id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()
	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.Seed, &r.CustomersServed, &r.AverageWaitTime,
			&r.ServerUtilization, &r.MaxQueueLength); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CustomerCount returns the number of customer rows stored for runID.
func (s *Store) CustomerCount(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM customers WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// nullable maps NaN to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
