package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type Backend string

const (
	SQLite     Backend = "sqlite"
	MySQL      Backend = "mysql"
	PostgreSQL Backend = "postgresql"
)

const DefaultTable = "difficulty_cache"

var (
	ErrUnsupportedBackend = errors.New("unsupported cache backend")
	ErrInvalidTable       = errors.New("invalid table name")
	ErrNotFound           = errors.New("cache entry not found")
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

func ParseBackend(text string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	}

	return "", errors.Wrapf(ErrUnsupportedBackend, "%q, must be sqlite, mysql or postgresql", text)
}

// DefaultPath returns the location of the SQLite cache when no DSN is configured
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, "danser-pp", "cache.db")
}

// Cache persists difficulty attributes and strains keyed by map, mods and algorithm version
type Cache struct {
	db      *sql.DB
	backend Backend
	table   string
}

// Open connects to the backend and makes sure the cache table exists
func Open(backend Backend, dsn, table string) (*Cache, error) {
	if table == "" {
		table = DefaultTable
	}

	if !tableNamePattern.MatchString(table) {
		return nil, errors.Wrapf(ErrInvalidTable, "%q", table)
	}

	var (
		db  *sql.DB
		err error
	)

	switch backend {
	case SQLite:
		if dsn == "" {
			dsn = DefaultPath()

			if err = os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, errors.Wrap(err, "failed to create cache directory")
			}
		}

		db, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open SQLite cache at %q", dsn)
		}

		// go-sqlite3 locks the whole file on write
		db.SetMaxOpenConns(1)
	case MySQL:
		if _, err = mysql.ParseDSN(dsn); err != nil {
			return nil, errors.Wrap(err, "invalid MySQL DSN, expected user:password@tcp(host:port)/dbname")
		}

		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open MySQL cache")
		}
	case PostgreSQL:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open PostgreSQL cache")
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedBackend, "%q", backend)
	}

	cache := &Cache{
		db:      db,
		backend: backend,
		table:   table,
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s cache", backend)
	}

	if _, err = db.Exec(cache.createQuery()); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to create table %s", table)
	}

	log.Debug("Opened difficulty cache", "backend", backend, "table", table)

	return cache, nil
}

func (c *Cache) Backend() Backend {
	return c.backend
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the entry stored under key, ErrNotFound if there is none
func (c *Cache) Get(ctx context.Context, key Key) (Entry, error) {
	query := fmt.Sprintf("SELECT attributes, strains, version, created FROM %s WHERE cache_key = %s", c.quotedTable(), c.placeholder(1))

	var (
		rawAttributes []byte
		rawStrains    []byte
		version       int
		created       int64
	)

	err := c.db.QueryRowContext(ctx, query, key.String()).Scan(&rawAttributes, &rawStrains, &version, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, errors.Wrap(ErrNotFound, key.String())
	} else if err != nil {
		return Entry{}, errors.Wrap(err, "failed to query cache")
	}

	entry, err := decodeEntry(rawAttributes, rawStrains)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "corrupted cache entry %s", key.String())
	}

	entry.Version = version
	entry.Created = time.Unix(created, 0)

	return entry, nil
}

// Put inserts or replaces the entry stored under key
func (c *Cache) Put(ctx context.Context, key Key, entry Entry) error {
	rawAttributes, rawStrains, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	created := entry.Created
	if created.IsZero() {
		created = time.Now()
	}

	_, err = c.db.ExecContext(ctx, c.upsertQuery(), key.String(), key.MD5, rawAttributes, rawStrains, key.Version, created.Unix())

	return errors.Wrap(err, "failed to store cache entry")
}

// Remember returns the cached entry or computes and stores a new one.
// The second return value reports whether the entry came from the cache.
func (c *Cache) Remember(ctx context.Context, key Key, compute func() (Entry, error)) (Entry, bool, error) {
	entry, err := c.Get(ctx, key)
	if err == nil {
		return entry, true, nil
	}

	if !errors.Is(err, ErrNotFound) {
		log.Warn("Cache lookup failed, recalculating", "key", key.String(), "err", err)
	}

	entry, err = compute()
	if err != nil {
		return Entry{}, false, err
	}

	entry.Version = key.Version

	if err = c.Put(ctx, key, entry); err != nil {
		log.Warn("Failed to store cache entry", "key", key.String(), "err", err)
	}

	return entry, false, nil
}

// Invalidate removes entries of the given map, all entries if md5 is empty
func (c *Cache) Invalidate(ctx context.Context, md5 string) (int64, error) {
	var (
		result sql.Result
		err    error
	)

	if md5 == "" {
		result, err = c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", c.quotedTable()))
	} else {
		result, err = c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE md5 = %s", c.quotedTable(), c.placeholder(1)), md5)
	}

	if err != nil {
		return 0, errors.Wrap(err, "failed to invalidate cache")
	}

	return result.RowsAffected()
}

// Prune removes entries calculated with algorithm versions other than the current ones
func (c *Cache) Prune(ctx context.Context, current []int) (int64, error) {
	if len(current) == 0 {
		return 0, nil
	}

	holders := make([]string, len(current))
	args := make([]any, len(current))

	for i, v := range current {
		holders[i] = c.placeholder(i + 1)
		args[i] = v
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE version NOT IN (%s)", c.quotedTable(), strings.Join(holders, ", "))

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune cache")
	}

	return result.RowsAffected()
}

type Stats struct {
	Entries int64
	Maps    int64
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	query := fmt.Sprintf(`SELECT COUNT(*), COUNT(DISTINCT md5),
		COALESCE(SUM(LENGTH(attributes) + LENGTH(strains)), 0),
		COALESCE(MIN(created), 0), COALESCE(MAX(created), 0) FROM %s`, c.quotedTable())

	var (
		stats          Stats
		oldest, newest int64
	)

	if err := c.db.QueryRowContext(ctx, query).Scan(&stats.Entries, &stats.Maps, &stats.Bytes, &oldest, &newest); err != nil {
		return Stats{}, errors.Wrap(err, "failed to read cache stats")
	}

	if stats.Entries > 0 {
		stats.Oldest = time.Unix(oldest, 0)
		stats.Newest = time.Unix(newest, 0)
	}

	return stats, nil
}

func (c *Cache) createQuery() string {
	switch c.backend {
	case MySQL:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			cache_key VARCHAR(255) PRIMARY KEY,
			md5 VARCHAR(32) NOT NULL,
			attributes BLOB NOT NULL,
			strains LONGBLOB NOT NULL,
			version INT NOT NULL,
			created BIGINT NOT NULL
		)`, c.quotedTable())
	case PostgreSQL:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			cache_key TEXT PRIMARY KEY,
			md5 TEXT NOT NULL,
			attributes BYTEA NOT NULL,
			strains BYTEA NOT NULL,
			version INTEGER NOT NULL,
			created BIGINT NOT NULL
		)`, c.quotedTable())
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		cache_key TEXT PRIMARY KEY,
		md5 TEXT NOT NULL,
		attributes BLOB NOT NULL,
		strains BLOB NOT NULL,
		version INTEGER NOT NULL,
		created INTEGER NOT NULL
	)`, c.quotedTable())
}

func (c *Cache) upsertQuery() string {
	table := c.quotedTable()

	switch c.backend {
	case MySQL:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, md5, attributes, strains, version, created) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE attributes = new.attributes, strains = new.strains, version = new.version, created = new.created`, table)
	case PostgreSQL:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, md5, attributes, strains, version, created) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (cache_key) DO UPDATE SET attributes = EXCLUDED.attributes, strains = EXCLUDED.strains, version = EXCLUDED.version, created = EXCLUDED.created`, table)
	}

	return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, md5, attributes, strains, version, created) VALUES (?, ?, ?, ?, ?, ?)`, table)
}

func (c *Cache) placeholder(n int) string {
	if c.backend == PostgreSQL {
		return fmt.Sprintf("$%d", n)
	}

	return "?"
}

func (c *Cache) quotedTable() string {
	if c.backend == MySQL {
		return "`" + c.table + "`"
	}

	return `"` + c.table + `"`
}
