package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"github.com/yigit/programhub/internal/config"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDB database connection structure
type PostgresDB struct {
	Pool    *pgxpool.Pool
	breaker *gobreaker.CircuitBreaker
}

// NewPostgresDB creates a new PostgreSQL connection pool
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return NewFromPool(pool), nil
}

// NewFromPool wraps an existing pool. Integration tests use it directly.
func NewFromPool(pool *pgxpool.Pool) *PostgresDB {
	return &PostgresDB{
		Pool:    pool,
		breaker: NewCircuitBreaker("PostgreSQL"),
	}
}

// NewCircuitBreaker opens after three consecutive infrastructure failures and
// tries again after ten seconds. Business errors do not count as failures.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isInfrastructureError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

func isInfrastructureError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if dberrors.IsClientDataError(err) || dberrors.IsUniqueViolation(err) || dberrors.IsForeignKeyViolation(err) {
		return false
	}
	return !apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrConflict,
		apperrors.ErrValidationFailed,
		apperrors.ErrInvalidTransition,
		apperrors.ErrPermissionDenied)
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks connectivity through the circuit breaker.
func (db *PostgresDB) Ping(ctx context.Context) error {
	_, err := db.breaker.Execute(func() (interface{}, error) {
		return nil, db.Pool.Ping(ctx)
	})
	return breakerError(err)
}

// QueryFn runs statements against the pool outside a transaction.
type QueryFn func(ctx context.Context, q Querier) error

// Do runs single-statement reads and writes through the circuit breaker.
func (db *PostgresDB) Do(ctx context.Context, fn QueryFn) error {
	_, err := db.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx, db.Pool)
	})
	return breakerError(err)
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn inside a transaction guarded by the circuit breaker.
// Any error returned by fn rolls back every statement fn issued.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	_, err := db.breaker.Execute(func() (interface{}, error) {
		return nil, db.runTransaction(ctx, fn)
	})
	return breakerError(err)
}

func (db *PostgresDB) runTransaction(ctx context.Context, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrStorageFailure, err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrStorageFailure, err)
	}

	return nil
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: database unavailable: %w", apperrors.ErrStorageFailure, err)
	}
	return err
}
