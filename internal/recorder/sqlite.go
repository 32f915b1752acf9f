package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

// SQLiteRecorder persists history into the shared application database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder runs the history migrations on an already-open database.
func NewSQLiteRecorder(db *sql.DB) (*SQLiteRecorder, error) {
	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("migrate recorder: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			chat_id        INTEGER NOT NULL,
			cadence        TEXT,
			symbol         TEXT,
			quantity       INTEGER,
			unit_price     REAL,
			cost           REAL,
			score          REAL,
			recommendation TEXT,
			reasons        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			chat_id   INTEGER NOT NULL,
			kind      TEXT,
			symbol    TEXT,
			score     REAL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDecision(d *Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tags := make([]string, len(d.Reasons))
	for i, reason := range d.Reasons {
		tags[i] = string(reason.Tag)
	}

	_, err := r.db.Exec(`INSERT INTO decisions
		(timestamp, chat_id, cadence, symbol, quantity, unit_price, cost, score, recommendation, reasons)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), d.ChatID, d.Cadence, d.Symbol,
		d.Quantity, d.UnitPrice, d.Cost, d.Score,
		string(d.Recommendation), strings.Join(tags, ";"),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(a *AlertRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts
		(timestamp, chat_id, kind, symbol, score, message)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), a.ChatID, string(a.Kind), a.Symbol, a.Score, a.Message,
	)
	return err
}
