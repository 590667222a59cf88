package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

type DatabaseConfig struct {
	Type       string // "sqlite3" or "postgres"
	Database   string // db name or file path
	Host       string
	Port       int
	User       string
	Password   string
	SSLMode    string
	Migrations string // root dir holding per-backend migration subdirs
}

// DBPool holds the open handles for whichever backend is configured.
// The sqlite path splits reads and writes into two pools so the single
// writer never starves readers; the postgres path is one pgx pool.
type DBPool struct {
	Type    string
	ReadDB  *sql.DB
	WriteDB *sql.DB
	PgxPool *pgxpool.Pool
}

const (
	busyTimeout = "5000"      // 5 seconds
	cacheSize   = "-20000"    // 20MB
	mmapSize    = "268435456" // 256MB
	journalMode = "WAL"
	synchronous = "NORMAL"
	tempStore   = "MEMORY"
	foreignKeys = "true"
)

func InitDB(cfg DatabaseConfig) (*DBPool, error) {
	switch cfg.Type {
	case "sqlite3":
		return initSQLite(cfg)
	case "postgres":
		return initPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func initSQLite(cfg DatabaseConfig) (*DBPool, error) {
	writeDB, err := openSQLiteConnection(cfg.Database, false)
	if err != nil {
		return nil, fmt.Errorf("write pool init failed: %w", err)
	}

	readDB, err := openSQLiteConnection(cfg.Database, true)
	if err != nil {
		return nil, fmt.Errorf("read pool init failed: %w", err)
	}

	if err := runSQLiteMigrations(writeDB, cfg.Migrations); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &DBPool{
		Type:    "sqlite3",
		ReadDB:  readDB,
		WriteDB: writeDB,
	}, nil
}

func initPostgres(cfg DatabaseConfig) (*DBPool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx pool init failed: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connection ping failed: %w", err)
	}

	if err := runPostgresMigrations(dsn, cfg.Migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &DBPool{
		Type:    "postgres",
		PgxPool: pool,
	}, nil
}

func runSQLiteMigrations(db *sql.DB, migrationsDir string) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir+"/sqlite", "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func runPostgresMigrations(dsn, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir+"/postgres", dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func openSQLiteConnection(database string, readonly bool) (*sql.DB, error) {
	params := make(url.Values)
	params.Add("_journal_mode", journalMode)
	params.Add("_busy_timeout", busyTimeout)
	params.Add("_synchronous", synchronous)
	params.Add("_cache_size", cacheSize)
	params.Add("_foreign_keys", foreignKeys)
	params.Add("_temp_store", tempStore)

	if readonly {
		params.Add("mode", "ro")
	} else {
		params.Add("mode", "rwc")
		params.Add("_txlock", "immediate")
	}

	connStr := fmt.Sprintf("file:%s?%s", database, params.Encode())
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(fmt.Sprintf("PRAGMA mmap_size=%s;", mmapSize))
	if err != nil {
		return nil, fmt.Errorf("mmap_size pragma failed: %w", err)
	}

	if readonly {
		db.SetMaxOpenConns(max(2, runtime.NumCPU()))
		db.SetMaxIdleConns(2)
	} else {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connection ping failed: %w", err)
	}

	return db, nil
}

// Close releases whichever handles the backend opened.
func (pool *DBPool) Close() {
	if pool.ReadDB != nil {
		pool.ReadDB.Close()
	}
	if pool.WriteDB != nil {
		pool.WriteDB.Close()
	}
	if pool.PgxPool != nil {
		pool.PgxPool.Close()
	}
}

type RequestDB struct {
	*sql.Tx
	conn *sql.DB
}

func (pool *DBPool) GetReadTx(ctx context.Context) (*RequestDB, error) {
	tx, err := pool.ReadDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &RequestDB{Tx: tx, conn: pool.ReadDB}, nil
}

func (pool *DBPool) GetWriteTx(ctx context.Context) (*RequestDB, error) {
	tx, err := pool.WriteDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &RequestDB{Tx: tx, conn: pool.WriteDB}, nil
}

func (rdb *RequestDB) Commit() error {
	return rdb.Tx.Commit()
}

func (rdb *RequestDB) Rollback() error {
	return rdb.Tx.Rollback()
}
