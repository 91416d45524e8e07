package store

import (
	"context"
	"fmt"
	"time"
)

// BlacklistToken records a logged-out token until it would have expired anyway.
// Blacklisting the same token twice is a no-op.
func (s *Store) BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO blacklisted_tokens (token, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO NOTHING
	`, token, expiresAt.UTC()); err != nil {
		return fmt.Errorf("insert blacklisted token: %w", err)
	}
	return nil
}

// IsTokenBlacklisted reports whether token was logged out and has not yet expired.
func (s *Store) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var listed bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM blacklisted_tokens
			WHERE token = $1 AND expires_at > now()
		)
	`, token).Scan(&listed)
	if err != nil {
		return false, fmt.Errorf("check blacklisted token: %w", err)
	}
	return listed, nil
}

// PurgeExpiredTokens deletes blacklist rows whose expiry has passed.
func (s *Store) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blacklisted_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purge blacklisted tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge blacklisted tokens: %w", err)
	}
	return n, nil
}
