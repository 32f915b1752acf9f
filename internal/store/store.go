// Package store persists users, holdings and net-worth snapshots in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/Krishnakumar40/ai-investment-system/internal/model"
)

var (
	// ErrUserNotFound is returned for operations on unregistered chat IDs.
	ErrUserNotFound = errors.New("user not registered")
	// ErrInsufficientQuantity is returned when a sell exceeds the held quantity.
	ErrInsufficientQuantity = errors.New("not enough quantity to sell")
)

// Store wraps the SQLite database holding all user state.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the metrics/reporting side can read while cycles write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("store opened")
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			chat_id      INTEGER PRIMARY KEY,
			username     TEXT,
			budget       REAL NOT NULL DEFAULT 0,
			cash_balance REAL NOT NULL DEFAULT 0,
			risk_profile TEXT NOT NULL DEFAULT 'balanced',
			created_at   INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS holdings (
			chat_id       INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			quantity      INTEGER NOT NULL DEFAULT 0,
			average_price REAL NOT NULL DEFAULT 0,
			updated_at    INTEGER NOT NULL,
			PRIMARY KEY (chat_id, symbol)
		)`,
		`CREATE TABLE IF NOT EXISTS net_worth_snapshots (
			chat_id            INTEGER NOT NULL,
			date               TEXT NOT NULL,
			total_invested     REAL NOT NULL,
			total_market_value REAL NOT NULL,
			cash_balance       REAL NOT NULL,
			PRIMARY KEY (chat_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_date ON net_worth_snapshots(chat_id, date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// DB exposes the underlying handle so the recorder can share the database.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error {
	log.Info().Msg("closing store")
	return s.db.Close()
}

// RegisterUser creates a user if missing, or refreshes the username.
func (s *Store) RegisterUser(chatID int64, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO users (chat_id, username, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET username = excluded.username`,
		chatID, username, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return s.getUserLocked(chatID)
}

// GetUser loads a user and their holdings.
func (s *Store) GetUser(chatID int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUserLocked(chatID)
}

func (s *Store) getUserLocked(chatID int64) (*model.User, error) {
	u := &model.User{}
	var createdAt int64
	err := s.db.QueryRow(`SELECT chat_id, COALESCE(username,''), budget, cash_balance, risk_profile, created_at
		FROM users WHERE chat_id = ?`, chatID).
		Scan(&u.ChatID, &u.Username, &u.Budget, &u.CashBalance, &u.RiskProfile, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0)

	holdings, err := s.holdingsLocked(chatID)
	if err != nil {
		return nil, err
	}
	u.Holdings = holdings
	return u, nil
}

func (s *Store) holdingsLocked(chatID int64) ([]model.Holding, error) {
	rows, err := s.db.Query(`SELECT symbol, quantity, average_price, updated_at
		FROM holdings WHERE chat_id = ? AND quantity > 0 ORDER BY symbol`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []model.Holding
	for rows.Next() {
		var h model.Holding
		var updatedAt int64
		if err := rows.Scan(&h.Symbol, &h.Quantity, &h.AveragePrice, &updatedAt); err != nil {
			return nil, err
		}
		h.UpdatedAt = time.Unix(updatedAt, 0)
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// ListUsers returns every registered user with holdings loaded.
func (s *Store) ListUsers() ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT chat_id FROM users ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.getUserLocked(id)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// SetBalance replaces the user's cash balance.
func (s *Store) SetBalance(chatID int64, balance float64) error {
	return s.updateUser(chatID, `UPDATE users SET cash_balance = ? WHERE chat_id = ?`, balance, chatID)
}

// AddBalance adds (or with a negative amount, deducts) cash.
func (s *Store) AddBalance(chatID int64, amount float64) error {
	return s.updateUser(chatID, `UPDATE users SET cash_balance = cash_balance + ? WHERE chat_id = ?`, amount, chatID)
}

// SetBudget sets the user's max per-share price filter.
func (s *Store) SetBudget(chatID int64, budget float64) error {
	return s.updateUser(chatID, `UPDATE users SET budget = ? WHERE chat_id = ?`, budget, chatID)
}

func (s *Store) updateUser(chatID int64, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetHolding replaces a tracked position outright (the /add command).
func (s *Store) SetHolding(chatID int64, symbol string, quantity int64, averagePrice float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserLocked(chatID); err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)
	_, err := s.db.Exec(`INSERT INTO holdings (chat_id, symbol, quantity, average_price, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id, symbol) DO UPDATE SET
			quantity = excluded.quantity,
			average_price = excluded.average_price,
			updated_at = excluded.updated_at`,
		chatID, symbol, quantity, averagePrice, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set holding: %w", err)
	}
	return nil
}

// RecordBuy books a purchase: accumulates quantity with a weighted average
// cost and deducts the spend from cash.
func (s *Store) RecordBuy(chatID int64, symbol string, quantity int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserLocked(chatID); err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)

	var heldQty int64
	var heldAvg float64
	err := s.db.QueryRow(`SELECT quantity, average_price FROM holdings WHERE chat_id = ? AND symbol = ?`,
		chatID, symbol).Scan(&heldQty, &heldAvg)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load holding: %w", err)
	}

	newQty := heldQty + quantity
	newAvg := price
	if newQty > 0 {
		newAvg = (float64(heldQty)*heldAvg + float64(quantity)*price) / float64(newQty)
	}

	_, err = s.db.Exec(`INSERT INTO holdings (chat_id, symbol, quantity, average_price, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id, symbol) DO UPDATE SET
			quantity = excluded.quantity,
			average_price = excluded.average_price,
			updated_at = excluded.updated_at`,
		chatID, symbol, newQty, newAvg, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record buy: %w", err)
	}

	_, err = s.db.Exec(`UPDATE users SET cash_balance = cash_balance - ? WHERE chat_id = ?`,
		float64(quantity)*price, chatID)
	return err
}

// RecordSell books a sale: reduces quantity (removing the row at zero) and
// credits the proceeds to cash.
func (s *Store) RecordSell(chatID int64, symbol string, quantity int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserLocked(chatID); err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)

	var heldQty int64
	err := s.db.QueryRow(`SELECT quantity FROM holdings WHERE chat_id = ? AND symbol = ?`,
		chatID, symbol).Scan(&heldQty)
	if errors.Is(err, sql.ErrNoRows) || heldQty < quantity {
		return ErrInsufficientQuantity
	}
	if err != nil {
		return fmt.Errorf("load holding: %w", err)
	}

	remaining := heldQty - quantity
	if remaining == 0 {
		_, err = s.db.Exec(`DELETE FROM holdings WHERE chat_id = ? AND symbol = ?`, chatID, symbol)
	} else {
		_, err = s.db.Exec(`UPDATE holdings SET quantity = ?, updated_at = ? WHERE chat_id = ? AND symbol = ?`,
			remaining, time.Now().Unix(), chatID, symbol)
	}
	if err != nil {
		return fmt.Errorf("record sell: %w", err)
	}

	_, err = s.db.Exec(`UPDATE users SET cash_balance = cash_balance + ? WHERE chat_id = ?`,
		float64(quantity)*price, chatID)
	return err
}

// ResetUser clears all holdings and zeroes the wallet.
func (s *Store) ResetUser(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM holdings WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("reset holdings: %w", err)
	}
	_, err := s.db.Exec(`UPDATE users SET cash_balance = 0, budget = 0 WHERE chat_id = ?`, chatID)
	return err
}

func (s *Store) requireUserLocked(chatID int64) error {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM users WHERE chat_id = ?`, chatID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// SaveSnapshot upserts today's net-worth record for a user.
func (s *Store) SaveSnapshot(chatID int64, snap model.NetWorthSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO net_worth_snapshots
		(chat_id, date, total_invested, total_market_value, cash_balance)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id, date) DO UPDATE SET
			total_invested = excluded.total_invested,
			total_market_value = excluded.total_market_value,
			cash_balance = excluded.cash_balance`,
		chatID, snap.Date, snap.TotalInvested, snap.TotalMarketValue, snap.CashBalance)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// SnapshotsSince returns a user's snapshots on or after sinceDate (YYYY-MM-DD),
// oldest first.
func (s *Store) SnapshotsSince(chatID int64, sinceDate string) ([]model.NetWorthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date, total_invested, total_market_value, cash_balance
		FROM net_worth_snapshots WHERE chat_id = ? AND date >= ? ORDER BY date ASC`,
		chatID, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.NetWorthSnapshot
	for rows.Next() {
		var snap model.NetWorthSnapshot
		if err := rows.Scan(&snap.Date, &snap.TotalInvested, &snap.TotalMarketValue, &snap.CashBalance); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
