package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Conn wraps the raw database/sql connection used for the streaming
// bulk-join read. The joined history for a full month runs to hundreds of
// thousands of rows; scanning them off a plain *sql.Rows avoids buffering
// the whole result set twice.
type Conn struct {
	conn *sql.DB
}

// ConnConfig holds raw connection configuration
type ConnConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// NewConnection creates a new raw database connection
func NewConnection(cfg ConnConfig) (*Conn, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single-writer batch workload: one long-lived read plus a handful of
	// lookup queries is all this connection ever carries.
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(30 * time.Minute)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Raw database connection established")

	return &Conn{conn: conn}, nil
}

// Close closes the database connection
func (c *Conn) Close() error {
	if c.conn != nil {
		log.Println("📡 Closing raw database connection...")
		return c.conn.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (c *Conn) Ping() error {
	return c.conn.Ping()
}

// SQL returns the underlying sql.DB connection
func (c *Conn) SQL() *sql.DB {
	return c.conn
}
