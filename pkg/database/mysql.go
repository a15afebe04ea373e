package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"dev/bravebird/browser-launcher/pkg/models"
)

// DB represents the command journal connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dsn string) (*DB, error) {
	cfg, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn := sql.OpenDB(connector)

	// Configure connection pool
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// parseDSN parses dsn and forces the options the journal relies on
func parseDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

const schema = `
	CREATE TABLE IF NOT EXISTS control_commands (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		source       VARCHAR(16)  NOT NULL,
		kind         VARCHAR(16)  NOT NULL,
		raw          TEXT         NOT NULL,
		url          TEXT         NULL,
		skipped      BOOLEAN      NOT NULL DEFAULT FALSE,
		engine_error TEXT         NULL,
		received_at  DATETIME(3)  NOT NULL,
		INDEX idx_received_at (received_at)
	)
`

// EnsureSchema creates the journal table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ==================== Command Journal ====================

// RecordCommand stores a dispatched command
func (db *DB) RecordCommand(ctx context.Context, rec *models.CommandRecord) error {
	query := `
		INSERT INTO control_commands (id, source, kind, raw, url, skipped, engine_error, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.conn.ExecContext(ctx, query,
		rec.ID,
		rec.Source,
		rec.Kind,
		rec.Raw,
		nullString(rec.URL),
		rec.Skipped,
		nullString(rec.EngineErr),
		rec.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// ListRecentCommands returns the latest commands, newest first
func (db *DB) ListRecentCommands(ctx context.Context, limit int) ([]models.CommandRecord, error) {
	query := `
		SELECT id, source, kind, raw, url, skipped, engine_error, received_at
		FROM control_commands
		ORDER BY received_at DESC
		LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}
	defer rows.Close()

	var records []models.CommandRecord
	for rows.Next() {
		var rec models.CommandRecord
		var url, engineErr sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Source,
			&rec.Kind,
			&rec.Raw,
			&url,
			&rec.Skipped,
			&engineErr,
			&rec.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		rec.URL = url.String
		rec.EngineErr = engineErr.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
