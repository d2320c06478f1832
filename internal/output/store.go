package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hftsim/internal/common"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// TradeStore keeps the tapes of past runs in a SQLite database, keyed by run
// id.
type TradeStore struct {
	db *sql.DB
}

// OpenTradeStore creates or opens the trade store.
func OpenTradeStore(path string) (*TradeStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &TradeStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *TradeStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			timestamp_unix_nanos INTEGER NOT NULL,
			buy_order_id TEXT NOT NULL,
			sell_order_id TEXT NOT NULL,
			price REAL NOT NULL,
			quantity REAL NOT NULL,
			initiator INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// SaveTrades stores a whole tape under runID in one transaction.
func (s *TradeStore) SaveTrades(ctx context.Context, runID string, trades []common.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trades (run_id, seq, timestamp_unix_nanos, buy_order_id, sell_order_id, price, quantity, initiator)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			runID, i, t.Timestamp.UnixNano(), t.BuyOrderUUID, t.SellOrderUUID, t.Price, t.Quantity, int(t.Initiator),
		); err != nil {
			return fmt.Errorf("failed to insert trade %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadTrades returns the tape stored under runID, in tape order.
func (s *TradeStore) LoadTrades(ctx context.Context, runID string) ([]common.Trade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp_unix_nanos, buy_order_id, sell_order_id, price, quantity, initiator
		 FROM trades WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []common.Trade
	for rows.Next() {
		var (
			t         common.Trade
			nanos     int64
			initiator int
		)
		if err := rows.Scan(&nanos, &t.BuyOrderUUID, &t.SellOrderUUID, &t.Price, &t.Quantity, &initiator); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Timestamp = time.Unix(0, nanos).UTC()
		t.Initiator = common.Side(initiator)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trades: %w", err)
	}
	return trades, nil
}

// ListRuns returns every stored run id, sorted.
func (s *TradeStore) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT run_id FROM trades ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func (s *TradeStore) Close() error {
	return s.db.Close()
}

// StoreSink saves a run's tape into a TradeStore.
type StoreSink struct {
	Store *TradeStore
	RunID string
}

func (s *StoreSink) Name() string { return "sqlite" }

func (s *StoreSink) Write(ctx context.Context, trades []common.Trade) error {
	if err := s.Store.SaveTrades(ctx, s.RunID, trades); err != nil {
		return err
	}
	log.Info().Str("run_id", s.RunID).Int("trades", len(trades)).Msg("trades stored")
	return nil
}
