package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"symbolstats/internal/model"
)

// SQLiteRecorder persists statistics snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{
		db:  db,
		log: log.With().Str("component", "recorder").Logger(),
		now: time.Now,
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS symbol_stats (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			bid           REAL,
			volume        REAL,
			high_d        REAL,
			low_d         REAL,
			high_m        REAL,
			low_m         REAL,
			mark_h_time   INTEGER,
			mark_h_price  REAL,
			mark_d_time   INTEGER,
			mark_d_price  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbol_stats_ts ON symbol_stats(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_symbol_stats_symbol ON symbol_stats(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordStats writes one row per symbol in a single transaction. Symbols
// that have neither a bid nor a completed scan are skipped.
func (r *SQLiteRecorder) RecordStats(symbols []model.Symbol) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO symbol_stats
		(timestamp, symbol, bid, volume, high_d, low_d, high_m, low_m,
		 mark_h_time, mark_h_price, mark_d_time, mark_d_price)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := r.now().Unix()
	written := 0
	for _, sym := range symbols {
		st := sym.Stats
		if !st.HasBid() && !st.Scanned {
			continue
		}
		hTime, hPrice := markColumns(st.Marks, model.MarkHour)
		dTime, dPrice := markColumns(st.Marks, model.MarkDay)
		agg := dayColumns(st)
		if _, err := stmt.Exec(
			now, sym.Name, nullFloat(st.Bid),
			agg[0], agg[1], agg[2], agg[3], agg[4],
			hTime, hPrice, dTime, dPrice,
		); err != nil {
			return fmt.Errorf("insert %s: %w", sym.Name, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Int("rows", written).Msg("stats snapshot recorded")
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// dayColumns returns volume, high_d, low_d, high_m and low_m, all NULL until
// a day scan has written them.
func dayColumns(st model.Stats) [5]sql.NullFloat64 {
	var cols [5]sql.NullFloat64
	if !st.Scanned {
		return cols
	}
	for i, v := range []float64{st.Volume, st.HighD, st.LowD, st.HighM, st.LowM} {
		cols[i] = sql.NullFloat64{Float64: v, Valid: true}
	}
	return cols
}

func markColumns(marks map[string]model.Mark, key string) (sql.NullInt64, sql.NullFloat64) {
	m, ok := marks[key]
	if !ok {
		return sql.NullInt64{}, sql.NullFloat64{}
	}
	return sql.NullInt64{Int64: m.Time.UnixMilli(), Valid: true},
		sql.NullFloat64{Float64: m.Price, Valid: true}
}
