package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/dmitrijs2005/studentrecords/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RetryPolicy controls how long Open keeps pinging an unreachable database.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy gives the database about a minute to come up.
var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
	MaxElapsedTime:  time.Minute,
}

// Open creates a pgx-backed *sql.DB pool and blocks until the server answers
// a ping or the retry policy gives up.
func Open(ctx context.Context, dsn string, policy RetryPolicy, logger logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := WaitForDB(ctx, db, policy, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// WaitForDB pings p with exponential backoff.
func WaitForDB(ctx context.Context, p Pinger, policy RetryPolicy, logger logging.Logger) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval
	bo.MaxInterval = policy.MaxInterval
	bo.MaxElapsedTime = policy.MaxElapsedTime

	op := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return p.PingContext(pingCtx)
	}

	notify := func(err error, next time.Duration) {
		logger.Warn(ctx, "database not ready, retrying", "error", err.Error(), "next", next.String())
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	return nil
}
