package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/aquiresolve/admin-api/internal/config"
)

// DB holds the database connection
type DB struct {
	*sqlx.DB
	logger *logrus.Logger
}

// Initialize creates and initializes the database connection
func Initialize(cfg *config.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	dsn := cfg.GetDSN()

	logger.WithFields(logrus.Fields{
		"hostname": cfg.Hostname,
		"port":     cfg.Port,
		"database": cfg.Database,
	}).Info("Connecting to database...")

	// Open database connection
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to database")

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// New wraps an existing sqlx handle. Used by tests backed by sqlmock.
func New(db *sqlx.DB, logger *logrus.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.DB != nil {
		db.logger.Info("Closing database connection...")
		return db.DB.Close()
	}
	return nil
}

// HealthCheck checks if the database is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Transaction is a unit of work named after the operation it serves,
// e.g. "user_erasure" or "wallet_credit"
type Transaction struct {
	*sqlx.Tx
	operation string
	startedAt time.Time
	logger    *logrus.Logger
}

// Operation returns the name the transaction was started with
func (tx *Transaction) Operation() string {
	return tx.operation
}

// BeginTx starts a READ COMMITTED transaction for the named operation
func (db *DB) BeginTx(ctx context.Context, operation string) (*Transaction, error) {
	tx, err := db.DB.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin %s transaction: %w", operation, err)
	}

	db.logger.WithField("operation", operation).Debug("Transaction started")

	return &Transaction{
		Tx:        tx,
		operation: operation,
		startedAt: time.Now(),
		logger:    db.logger,
	}, nil
}

// Commit commits the transaction
func (tx *Transaction) Commit() error {
	if err := tx.Tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s transaction: %w", tx.operation, err)
	}

	tx.fields().Debug("Transaction committed")
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction is a no-op.
func (tx *Transaction) Rollback() error {
	if err := tx.Tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("failed to rollback %s transaction: %w", tx.operation, err)
	}

	tx.fields().Warn("Transaction rolled back")
	return nil
}

func (tx *Transaction) fields() *logrus.Entry {
	return tx.logger.WithFields(logrus.Fields{
		"operation":   tx.operation,
		"duration_ms": time.Since(tx.startedAt).Milliseconds(),
	})
}

// WithTransaction runs fn inside a transaction named after operation.
// An error or a panic from fn rolls back, otherwise the transaction commits.
func (db *DB) WithTransaction(ctx context.Context, operation string, fn func(*Transaction) error) error {
	tx, err := db.BeginTx(ctx, operation)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.WithError(rbErr).WithField("operation", operation).Error("Failed to rollback transaction")
		}
		return err
	}

	return tx.Commit()
}

// Stats returns database statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// LogStats logs current database connection pool statistics
func (db *DB) LogStats() {
	stats := db.Stats()
	db.logger.WithFields(logrus.Fields{
		"open_connections":    stats.OpenConnections,
		"in_use":              stats.InUse,
		"idle":                stats.Idle,
		"wait_count":          stats.WaitCount,
		"wait_duration":       stats.WaitDuration,
		"max_idle_closed":     stats.MaxIdleClosed,
		"max_lifetime_closed": stats.MaxLifetimeClosed,
	}).Debug("Database connection pool stats")
}
