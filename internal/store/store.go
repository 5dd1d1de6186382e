package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite database and hands out typed repositories for each
// record collection.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, unavailable("open database", err)
	}

	// One connection: a single logical writer, and per-connection pragmas
	// stay in effect for every statement.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, unavailable("apply pragmas", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, unavailable("auto-migrate", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, unavailable("sequence counter", err)
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Questions returns the question corpus repository.
func (s *Store) Questions() QuestionRepo {
	return &questionRepo{drv: s.drv}
}

// Answers returns the answer event repository.
func (s *Store) Answers() AnswerRepo {
	return &answerRepo{eq: s.drv, seq: s.seq}
}

// Progress returns the per-question progress repository.
func (s *Store) Progress() ProgressRepo {
	return &progressRepo{eq: s.drv}
}

// TxRepos are repositories bound to one transaction.
type TxRepos struct {
	Answers  AnswerRepo
	Progress ProgressRepo
}

// InTx runs fn with answer and progress repositories bound to a single
// transaction. It commits when fn returns nil and rolls back otherwise.
// fn must not use repositories obtained from s directly: the store has one
// connection and the transaction holds it.
func (s *Store) InTx(ctx context.Context, fn func(TxRepos) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	repos := TxRepos{
		Answers:  &answerRepo{eq: tx, seq: s.seq},
		Progress: &progressRepo{eq: tx},
	}
	if err := fn(repos); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit transaction", err)
	}
	return nil
}

// DailyStats returns the daily aggregate repository.
func (s *Store) DailyStats() DailyStatRepo {
	return &dailyStatRepo{drv: s.drv}
}

// Settings returns the singleton settings repository.
func (s *Store) Settings() SettingsRepo {
	return &settingsRepo{drv: s.drv}
}

// SnapshotRepo returns a SnapshotRepo backed by this store.
func (s *Store) SnapshotRepo() SnapshotRepo {
	return &snapshotRepo{drv: s.drv}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. FPDRILL_DB environment variable
// 2. $XDG_DATA_HOME/fpdrill/fpdrill.db
// 3. ~/.local/share/fpdrill/fpdrill.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("FPDRILL_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "fpdrill", "fpdrill.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
