package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/store"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter2" {
		t.Fatalf("expected hash to differ from password")
	}

	again, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if again == hash {
		t.Fatalf("expected per-password salt to produce different hashes")
	}

	if err := CheckPassword(hash, "hunter2"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "hunter3"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestCheckPasswordLength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"ascii ok", "hunter2", nil},
		{"four characters", "abcd", ErrPasswordTooShort},
		{"three two-byte characters", "äöü", ErrPasswordTooShort},
		{"five two-byte characters", "äöüßé", nil},
		{"at bcrypt limit", strings.Repeat("a", MaxPasswordBytes), nil},
		{"over bcrypt limit", strings.Repeat("a", 80), ErrPasswordTooLong},
		{"multibyte over limit", strings.Repeat("ä", 40), ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckPasswordLength(tt.password); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestHashPasswordTooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", 80)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("0123456789abcdef", 24*time.Hour)
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	user := store.User{ID: uuid.New(), Email: "ada@example.com", Role: store.RoleEditor}
	raw, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID != user.ID.String() || claims.Email != user.Email || claims.Role != "Editor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if want := issued.Add(24 * time.Hour); !claims.Expiry().Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, claims.Expiry())
	}
}

func TestParseRejects(t *testing.T) {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	signer := NewTokens("0123456789abcdef", time.Hour)
	signer.now = func() time.Time { return issued }
	raw, err := signer.Issue(store.User{ID: uuid.New(), Email: "ada@example.com", Role: store.RoleViewer})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tests := []struct {
		name   string
		parser *Tokens
		now    time.Time
		token  string
	}{
		{name: "expired", parser: NewTokens("0123456789abcdef", time.Hour), now: issued.Add(2 * time.Hour), token: raw},
		{name: "wrong secret", parser: NewTokens("fedcba9876543210", time.Hour), now: issued, token: raw},
		{name: "garbage", parser: NewTokens("0123456789abcdef", time.Hour), now: issued, token: "not.a.token"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.parser.now = func() time.Time { return tc.now }
			if _, err := tc.parser.Parse(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
