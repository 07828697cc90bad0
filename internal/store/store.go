package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// Pure Go SQLite driver (no CGO). gorm's sqlite dialect runs on top of it.
	_ "modernc.org/sqlite"
)

// Supported values for Open's driver argument.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the gorm handle and provides access to repositories.
type Store struct {
	db   *sql.DB
	gorm *gorm.DB
}

// Open creates a new Store. For sqlite, dsn is a file path or modernc DSN and
// the recommended pragmas are applied; for postgres it is a libpq-style DSN.
// Auto-migration runs in both cases.
func Open(driver, dsn string) (*Store, error) {
	cfg := &gorm.Config{
		Logger: newGormLogger(),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		// Pragmas are per connection; a single connection keeps them in force.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
		dialector = sqlite.New(sqlite.Config{Conn: db})
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver: %q", driver)
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying connection: %w", err)
	}

	if err := gdb.AutoMigrate(&Session{}, &Submission{}, &LLMRequestEvent{}); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, gorm: gdb}, nil
}

// Gorm returns the underlying gorm handle.
func (s *Store) Gorm() *gorm.DB {
	return s.gorm
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionRepo returns a SessionRepo backed by this store.
func (s *Store) SessionRepo() SessionRepo {
	return &sessionRepo{db: s.gorm}
}

// SubmissionRepo returns a SubmissionRepo backed by this store.
func (s *Store) SubmissionRepo() SubmissionRepo {
	return &submissionRepo{db: s.gorm}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.gorm}
}

// applyPragmas configures SQLite for a small, write-light web service.
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

// newGormLogger routes gorm's slow-query and error output through zerolog.
func newGormLogger() gormlogger.Interface {
	zl := log.With().Str("component", "gorm").Logger()
	return gormlogger.New(&zl, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// DefaultDBPath resolves the sqlite file path in priority order:
// 1. P5MATH_DB environment variable
// 2. $XDG_DATA_HOME/p5math/p5math.db
// 3. ~/.local/share/p5math/p5math.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("P5MATH_DB"); p != "" {
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

	p := filepath.Join(dataHome, "p5math", "p5math.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
