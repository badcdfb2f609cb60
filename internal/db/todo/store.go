package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/celestiaorg/taskman/internal/types"
)

const (
	// DefaultPath is where the todo database lives when no path is configured
	DefaultPath = "data/todo.db"
	// MemoryPath opens a private in-memory database
	MemoryPath = ":memory:"
)

const selectTodos = `SELECT id, title, note, due_date, priority, people, done, created_at, updated_at FROM todos`

// Store persists todo items. Writes are serialized and each runs in one
// transaction; reads go straight to the pool.
type Store struct {
	db *sqlx.DB
	mu sync.Mutex
}

// Open opens (or creates) the todo database at path, enables WAL mode with a
// busy timeout, and runs any pending schema migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating todo database directory: %w", err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening todo db: %w", err)
	}
	if path == MemoryPath {
		// Every connection would get its own empty database otherwise
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to todo db: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func dsn(path string) string {
	if path == MemoryPath {
		return "file::memory:?_pragma=busy_timeout(5000)"
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Version returns the schema version currently applied.
func (s *Store) Version() (int, error) {
	var version int
	if err := s.db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if currentVersion, err = s.Version(); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// List returns every todo ordered by id.
func (s *Store) List(ctx context.Context) ([]Todo, error) {
	todos := []Todo{}
	if err := s.db.SelectContext(ctx, &todos, selectTodos+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// Get returns a single todo.
func (s *Store) Get(ctx context.Context, id int64) (*Todo, error) {
	return getTodo(ctx, s.db, id)
}

// Add validates and stores a new todo, returning it with its assigned id.
func (s *Store) Add(ctx context.Context, in Input) (*Todo, error) {
	todo := in.normalize(time.Now().UTC())
	if todo.Title == "" {
		return nil, fmt.Errorf("%w: todo title cannot be empty", types.ErrInvalidInput)
	}

	var stored *Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO todos (title, note, due_date, priority, people, done, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			todo.Title, todo.Note, todo.DueDate, todo.Priority, todo.People,
			todo.Done, todo.CreatedAt, todo.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating todo: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading todo id: %w", err)
		}
		stored, err = getTodo(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Mark sets the done flag of a todo. updated_at always moves forward, even
// when two marks land within the clock's resolution.
func (s *Store) Mark(ctx context.Context, id int64, done bool) (*Todo, error) {
	var stored *Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if !now.After(current.UpdatedAt) {
			now = current.UpdatedAt.Add(time.Microsecond)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET done = ?, updated_at = ? WHERE id = ?",
			done, now, id,
		); err != nil {
			return fmt.Errorf("updating todo %d: %w", id, err)
		}
		stored, err = getTodo(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func getTodo(ctx context.Context, q sqlx.QueryerContext, id int64) (*Todo, error) {
	var todo Todo
	err := sqlx.GetContext(ctx, q, &todo, selectTodos+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: todo %d", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return &todo, nil
}
