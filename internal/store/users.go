package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role is a user's authorization tier.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// User is an account able to authenticate against the API.
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserFilter constrains ListUsers. Roles must not be empty.
type UserFilter struct {
	Roles []Role
	Page
}

// signupLockKey serialises first-user detection across concurrent signups.
const signupLockKey int64 = 0x6d75736963

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RegisterUser creates a self-signed-up user. The very first user becomes Admin,
// everyone after that is a Viewer.
func (s *Store) RegisterUser(ctx context.Context, email, passwordHash string) (User, error) {
	var user User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, signupLockKey); err != nil {
			return fmt.Errorf("lock signup: %w", err)
		}

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
			return fmt.Errorf("count users: %w", err)
		}

		role := RoleViewer
		if count == 0 {
			role = RoleAdmin
		}

		created, err := insertUser(ctx, tx, email, passwordHash, role)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a user with an explicit role.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, role Role) (User, error) {
	return insertUser(ctx, s.db, email, passwordHash, role)
}

func insertUser(ctx context.Context, q rowQueryer, email, passwordHash string, role Role) (User, error) {
	user := User{Email: email, PasswordHash: passwordHash, Role: role}
	err := q.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, email, passwordHash, string(role)).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UserByEmail looks up a user by email address.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

// UserByID looks up a user by id.
func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

// ListUsers returns users holding any of the filter's roles, oldest first.
func (s *Store) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	roles := make([]string, len(filter.Roles))
	for i, r := range filter.Roles {
		roles[i] = string(r)
	}

	query, args := paginate(`
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE role = ANY($1)
		ORDER BY created_at ASC, id ASC`, []any{pq.Array(roles)}, filter.Page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdatePasswordHash replaces a user's stored password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return rowsAffected(res, "update password")
}

// DeleteUser removes a user. Their favorite references go with them; the shared
// favorite rows stay.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return rowsAffected(res, "delete user")
}

func scanUser(row rowScanner) (User, error) {
	var (
		user User
		role string
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	user.Role = Role(role)
	return user, nil
}
