// Package fxtrace persists per-primitive conversion outcomes to SQLite for
// observability. Recording is asynchronous and lossy under pressure: a full
// buffer drops entries rather than backpressuring the conversion path.
package fxtrace

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Entry is one primitive conversion outcome.
type Entry struct {
	ConversionID  string // one id per Service instance (document)
	DefinitionID  string
	Kind          string
	OK            bool
	Native        bool
	Approximation bool
	DurationUs    int64
	Error         string
	Timestamp     int64 // unix microseconds
}

// Recorder is the interface the filter service records through.
type Recorder interface {
	RecordAsync(e *Entry)
	Close() error
}

// Schema for the filter_traces table. Call Store.Init() or apply manually.
const Schema = `
CREATE TABLE IF NOT EXISTS filter_traces (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversion_id TEXT NOT NULL,
	definition_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	ok INTEGER NOT NULL,
	native INTEGER NOT NULL,
	approximation INTEGER NOT NULL,
	duration_us INTEGER NOT NULL,
	error TEXT,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_filter_traces_conv ON filter_traces(conversion_id);
CREATE INDEX IF NOT EXISTS idx_filter_traces_kind ON filter_traces(kind);
`

// Store persists entries to SQLite in batches.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a store backed by the given database connection and
// starts its flush loop.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the filter_traces table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry for persistence. Non-blocking; drops if the
// buffer is full.
func (s *Store) RecordAsync(e *Entry) {
	select {
	case s.ch <- e:
	default:
	}
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.insert(batch); err != nil {
			slog.Warn("fxtrace: flush failed", "error", err, "entries", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *Store) insert(batch []*Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO filter_traces
		(conversion_id, definition_id, kind, ok, native, approximation, duration_us, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for _, e := range batch {
		if _, err := stmt.Exec(e.ConversionID, e.DefinitionID, e.Kind,
			boolInt(e.OK), boolInt(e.Native), boolInt(e.Approximation),
			e.DurationUs, e.Error, e.Timestamp); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert: %w", err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// KindSummary aggregates outcomes for one primitive kind.
type KindSummary struct {
	Kind          string
	Total         int
	Failed        int
	Native        int
	Approximation int
}

// Summary aggregates recorded outcomes per kind. Call after Close (or after
// the ticker has flushed) for a complete view.
func (s *Store) Summary() ([]KindSummary, error) {
	rows, err := s.db.Query(`SELECT kind,
		COUNT(*),
		SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END),
		SUM(native),
		SUM(approximation)
		FROM filter_traces GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}
	defer rows.Close()

	var out []KindSummary
	for rows.Next() {
		var k KindSummary
		if err := rows.Scan(&k.Kind, &k.Total, &k.Failed, &k.Native, &k.Approximation); err != nil {
			return nil, fmt.Errorf("summary scan: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
