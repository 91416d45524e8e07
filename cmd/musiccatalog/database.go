package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

// Pool sizing for the API: request handlers plus the blacklist sweeper. The
// signup advisory lock holds a connection for the length of one transaction.
const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// pingSchedule bounds how long startup waits for Postgres to accept connections.
type pingSchedule struct {
	timeout    time.Duration
	maxWait    time.Duration
	initial    time.Duration
	maxBackoff time.Duration
}

var startupPings = pingSchedule{
	timeout:    5 * time.Second,
	maxWait:    30 * time.Second,
	initial:    500 * time.Millisecond,
	maxBackoff: 5 * time.Second,
}

// openDatabase returns a pooled handle once Postgres answers. Migrations, the
// demo seed and the HTTP listener all run after it, so a database that never
// comes up stops the process instead of serving 500s.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := waitForDatabase(ctx, db, startupPings); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// waitForDatabase pings db with exponential backoff until it answers, the
// schedule runs out or ctx is cancelled.
func waitForDatabase(ctx context.Context, db *sql.DB, sched pingSchedule) error {
	deadline := time.Now().Add(sched.maxWait)
	backoff := sched.initial

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, sched.timeout)
		err := db.PingContext(pingCtx)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info().Int("attempts", attempt).Msg("database ready")
			}
			return nil
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			return fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}

		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", backoff).Msg("database not ready")
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, sched.maxBackoff)
	}
}
