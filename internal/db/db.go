package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrInvalidRole          = errors.New("role must be user or assistant")
	ErrEmptyContent         = errors.New("message content must not be empty")
	ErrConversationNotFound = errors.New("conversation not found")
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Database holds both the conversation tables and the read-only catalog tables.
type Database struct {
	db      *sql.DB
	dialect dialect
}

// New opens the store named by dsn and applies the schema. A postgres:// or
// postgresql:// URL selects the pgx driver; anything else is a SQLite file path.
func New(ctx context.Context, dsn string) (*Database, error) {
	driver, source, d, err := resolveDSN(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	schema := sqliteSchema
	if d == dialectPostgres {
		schema = postgresSchema
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Database{db: conn, dialect: d}, nil
}

func resolveDSN(dsn string) (driver, source string, d dialect, err error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx", dsn, dialectPostgres, nil
	}
	if dsn == "" {
		return "", "", 0, errors.New("empty database location")
	}

	path, params, _ := strings.Cut(dsn, "?")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", "", 0, err
		}
	}
	if params == "" {
		params = "_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	}
	return "sqlite3", path + "?" + params, dialectSQLite, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// rebind rewrites ? placeholders into $n for postgres.
func (db *Database) rebind(query string) string {
	if db.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
