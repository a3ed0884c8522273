// Package results records per-round training metrics in a sqlite
// database, one row per (run, round, client).
package results

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/SamuelGong/plato/splitlearning"
)

const schema = `
CREATE TABLE IF NOT EXISTS rounds (
	run TEXT NOT NULL,
	round INTEGER NOT NULL,
	client INTEGER NOT NULL,
	client_loss REAL NOT NULL,
	server_loss REAL NOT NULL,
	features INTEGER NOT NULL,
	gradients INTEGER NOT NULL,
	extract_seconds REAL NOT NULL,
	server_seconds REAL NOT NULL,
	client_seconds REAL NOT NULL,
	PRIMARY KEY (run, round, client)
);
`

// Recorder writes round results for a single run. Each Recorder gets a
// fresh run id, so multiple runs can share one database file.
type Recorder struct {
	db  *sql.DB
	run string
}

// RoundRow is one recorded round as stored in the database.
type RoundRow struct {
	Round      int
	ClientID   int
	ClientLoss float64
	ServerLoss float64
}

// Open opens (or creates) the database at path and ensures the schema
// exists.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("results: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: creating schema: %w", err)
	}
	return &Recorder{db: db, run: uuid.NewString()}, nil
}

// Run returns this recorder's run id.
func (r *Recorder) Run() string {
	return r.run
}

// Record stores one round result.
func (r *Recorder) Record(res splitlearning.RoundResult) error {
	_, err := r.db.Exec(`
		INSERT INTO rounds (run, round, client, client_loss, server_loss,
			features, gradients, extract_seconds, server_seconds, client_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.run, res.Round, res.ClientID, res.ClientLoss, res.ServerLoss,
		res.Features, res.Gradients,
		res.ExtractTime.Seconds(), res.ServerTime.Seconds(), res.ClientTime.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("results: recording round %d client %d: %w", res.Round, res.ClientID, err)
	}
	return nil
}

// Rounds returns this run's rows ordered by round, then client.
func (r *Recorder) Rounds() ([]RoundRow, error) {
	rows, err := r.db.Query(`
		SELECT round, client, client_loss, server_loss
		FROM rounds WHERE run = ?
		ORDER BY round, client`, r.run)
	if err != nil {
		return nil, fmt.Errorf("results: querying rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRow
	for rows.Next() {
		var row RoundRow
		if err := rows.Scan(&row.Round, &row.ClientID, &row.ClientLoss, &row.ServerLoss); err != nil {
			return nil, fmt.Errorf("results: scanning round row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
