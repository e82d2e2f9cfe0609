package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes the database connection from the environment.
// DB_TYPE selects the driver: "sqlite" (default, DATABASE_PATH) or
// "postgres" (DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "sqlite":
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			dbPath = filepath.Join("data", "englishboss.db")
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err = Open("sqlite3", dbPath)
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = Open("postgres", dsn)
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
	if err != nil {
		return err
	}

	DB = db
	return nil
}

// Open connects with an explicit driver and DSN and initializes the schema.
// Tests use it to open throwaway sqlite files.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	autoincrement := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		autoincrement = "BIGSERIAL PRIMARY KEY"
	}

	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			username TEXT,
			tz TEXT DEFAULT 'America/Chicago',
			notification_hour INTEGER DEFAULT 9,
			notifications_enabled BOOLEAN DEFAULT true,
			created_at TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// Create words table
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			level TEXT,
			en TEXT,
			fa TEXT,
			pos TEXT,
			synonyms TEXT,
			examples TEXT
		)
	`, autoincrement))
	if err != nil {
		return fmt.Errorf("failed to create words table: %w", err)
	}

	// Create user_words table. Timestamps are RFC 3339 text so ordering
	// and comparison behave the same on sqlite and postgres.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_words (
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			box INTEGER DEFAULT 1,
			next_due TEXT,
			successes INTEGER DEFAULT 0,
			failures INTEGER DEFAULT 0,
			last_reviewed TEXT,
			PRIMARY KEY (user_id, word_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_words table: %w", err)
	}

	return nil
}
