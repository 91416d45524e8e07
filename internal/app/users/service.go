package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/auth"
	"musiccatalog/internal/store"
	"musiccatalog/internal/validation"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	RegisterUser(ctx context.Context, email, passwordHash string) (store.User, error)
	CreateUser(ctx context.Context, email, passwordHash string, role store.Role) (store.User, error)
	UserByEmail(ctx context.Context, email string) (store.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (store.User, error)
	ListUsers(ctx context.Context, filter store.UserFilter) ([]store.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// Tokens issues and verifies access tokens.
type Tokens interface {
	Issue(user store.User) (string, error)
	Parse(raw string) (*auth.Claims, error)
}

// Service exposes account, session and user-administration workflows.
type Service interface {
	Signup(ctx context.Context, in Credentials) (store.User, error)
	Login(ctx context.Context, in Credentials) (string, error)
	Logout(ctx context.Context, session Session) error
	Authenticate(ctx context.Context, token string) (Session, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, in PasswordChange) error

	List(ctx context.Context, role string, page store.Page) ([]store.User, error)
	Add(ctx context.Context, in NewUser) (store.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Credentials is an email/password pair used by signup and login.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewUser is an admin-created account. Admins cannot create other admins.
type NewUser struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=Editor Viewer"`
}

// PasswordChange rotates the caller's password.
type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Session is an authenticated request's identity: the freshly loaded user
// plus the token it presented.
type Session struct {
	User   store.User
	Token  string
	Claims *auth.Claims
}

const (
	msgUnauthorized  = "Unauthorized Access"
	msgUserNotFound  = "User not found."
	msgEmailExists   = "Email already exists."
	msgEmailInvalid  = "Email not valid!"
	msgStaleSession  = "User currently logged in does not exist!"
	msgBadPassword   = "Invalid Password."
	msgPasswordShort = "Password length must be greater than 4"
	msgPasswordLong  = "Password must be at most 72 bytes"
)

// defaultListRoles hides admins from the user listing unless asked for explicitly.
var defaultListRoles = []store.Role{store.RoleViewer, store.RoleEditor}

type service struct {
	store  Store
	tokens Tokens
}

// New wires a Service backed by the provided Store and token manager.
func New(store Store, tokens Tokens) Service {
	return &service{store: store, tokens: tokens}
}

// Signup registers a user. The first account in the system becomes Admin.
func (s *service) Signup(ctx context.Context, in Credentials) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return store.User{}, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	hash, err := s.checkNewAccount(ctx, in.Email, in.Password)
	if err != nil {
		return store.User{}, err
	}

	user, err := s.store.RegisterUser(ctx, in.Email, hash)
	if errors.Is(err, store.ErrDuplicate) {
		return store.User{}, apperr.Conflict(msgEmailExists)
	}
	return user, err
}

func (s *service) Login(ctx context.Context, in Credentials) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return "", apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}

	user, err := s.store.UserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound(msgUserNotFound)
		}
		return "", err
	}

	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", apperr.Unauthenticated(msgBadPassword)
		}
		return "", err
	}

	return s.tokens.Issue(user)
}

// Logout blacklists the session's token until its own expiry.
func (s *service) Logout(ctx context.Context, session Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session.Token == "" || session.Claims == nil {
		return apperr.Invalid(apperr.BadRequest)
	}
	return s.store.BlacklistToken(ctx, session.Token, session.Claims.Expiry())
}

// Authenticate resolves a bearer token to a session. The user is re-read on
// every call so role changes and deletions take effect immediately.
func (s *service) Authenticate(ctx context.Context, token string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if token == "" {
		return Session{}, apperr.Unauthenticated(msgUnauthorized)
	}

	listed, err := s.store.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if listed {
		return Session{}, apperr.Unauthenticated(msgUnauthorized)
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.ErrUnauthenticated, msgUnauthorized, err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Session{}, apperr.Unauthenticated(msgUnauthorized)
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, apperr.StaleSession(msgStaleSession)
		}
		return Session{}, err
	}

	return Session{User: user, Token: token, Claims: claims}, nil
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, in PasswordChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := validation.Struct(in); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	if err := checkPassword(in.NewPassword); err != nil {
		return err
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return err
	}

	if err := auth.CheckPassword(user.PasswordHash, in.OldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperr.Unauthenticated(msgUnauthorized)
		}
		return err
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}

	if err := s.store.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return err
	}
	return nil
}

// List returns users with the given role, or every non-admin when role is empty.
func (s *service) List(ctx context.Context, role string, page store.Page) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roles := defaultListRoles
	if role != "" {
		r := store.Role(role)
		if !r.Valid() {
			return nil, apperr.Invalid(apperr.BadRequest)
		}
		roles = []store.Role{r}
	}
	return s.store.ListUsers(ctx, store.UserFilter{Roles: roles, Page: page})
}

func (s *service) Add(ctx context.Context, in NewUser) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return store.User{}, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	hash, err := s.checkNewAccount(ctx, in.Email, in.Password)
	if err != nil {
		return store.User{}, err
	}

	user, err := s.store.CreateUser(ctx, in.Email, hash, store.Role(in.Role))
	if errors.Is(err, store.ErrDuplicate) {
		return store.User{}, apperr.Conflict(msgEmailExists)
	}
	return user, err
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.UserByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return err
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return err
	}
	return nil
}

// checkNewAccount applies the shared signup/add-user checks in order:
// duplicate email, email format, password length. It returns the password hash.
func (s *service) checkNewAccount(ctx context.Context, email, password string) (string, error) {
	_, err := s.store.UserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", apperr.Conflict(msgEmailExists)
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("lookup email: %w", err)
	}

	if !validation.Email(email) {
		return "", apperr.Invalid(msgEmailInvalid)
	}
	if err := checkPassword(password); err != nil {
		return "", err
	}

	return auth.HashPassword(password)
}

func checkPassword(password string) error {
	switch err := auth.CheckPasswordLength(password); {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return apperr.Invalid(msgPasswordShort)
	case errors.Is(err, auth.ErrPasswordTooLong):
		return apperr.Invalid(msgPasswordLong)
	default:
		return err
	}
}
