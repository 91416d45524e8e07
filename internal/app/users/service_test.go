package users

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/auth"
	"musiccatalog/internal/store"
	"musiccatalog/internal/store/storetest"
)

func newService(t *testing.T) (Service, *storetest.Memory) {
	t.Helper()
	mem := storetest.New()
	return New(mem, auth.NewTokens("test-secret-0123456789", time.Hour)), mem
}

func signup(t *testing.T, svc Service, email string) store.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), Credentials{Email: email, Password: "hunter22"})
	if err != nil {
		t.Fatalf("Signup %s: %v", email, err)
	}
	return user
}

func TestSignupFirstUserIsAdmin(t *testing.T) {
	svc, _ := newService(t)

	first := signup(t, svc, "first@example.com")
	second := signup(t, svc, "second@example.com")

	if first.Role != store.RoleAdmin {
		t.Fatalf("expected first user to be Admin, got %s", first.Role)
	}
	if second.Role != store.RoleViewer {
		t.Fatalf("expected later user to be Viewer, got %s", second.Role)
	}
	if first.PasswordHash == "hunter22" || first.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestSignupChecksInOrder(t *testing.T) {
	svc, _ := newService(t)
	signup(t, svc, "taken@example.com")

	tests := []struct {
		name string
		in   Credentials
		kind error
		msg  string
	}{
		{"missing password", Credentials{Email: "a@example.com"}, apperr.ErrInvalidInput, apperr.BadRequest},
		{"duplicate before format", Credentials{Email: "taken@example.com", Password: "x"}, apperr.ErrConflict, "Email already exists."},
		{"bad email", Credentials{Email: "not-an-email", Password: "hunter22"}, apperr.ErrInvalidInput, "Email not valid!"},
		{"short password", Credentials{Email: "b@example.com", Password: "abcd"}, apperr.ErrInvalidInput, "Password length must be greater than 4"},
		{"short multibyte password", Credentials{Email: "b@example.com", Password: "äöü"}, apperr.ErrInvalidInput, "Password length must be greater than 4"},
		{"password beyond bcrypt limit", Credentials{Email: "b@example.com", Password: strings.Repeat("a", 80)}, apperr.ErrInvalidInput, "Password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.in)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if err.Error() != tt.msg {
				t.Fatalf("expected %q, got %q", tt.msg, err.Error())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	user := signup(t, svc, "nina@example.com")
	ctx := context.Background()

	token, err := svc.Login(ctx, Credentials{Email: "nina@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	session, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if session.User.ID != user.ID || session.Claims.Email != "nina@example.com" {
		t.Fatalf("unexpected session %+v", session)
	}

	if _, err := svc.Login(ctx, Credentials{Email: "ghost@example.com", Password: "hunter22"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Login(ctx, Credentials{Email: "nina@example.com", Password: "wrong-pass"}); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := svc.Login(ctx, Credentials{Email: "nina@example.com"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	user := signup(t, svc, "nina@example.com")
	token, err := svc.Login(ctx, Credentials{Email: "nina@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for empty token, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for garbage, got %v", err)
	}

	if err := mem.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	_, err = svc.Authenticate(ctx, token)
	if !errors.Is(err, apperr.ErrStaleSession) || err.Error() != "User currently logged in does not exist!" {
		t.Fatalf("expected stale session, got %v", err)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	signup(t, svc, "nina@example.com")
	token, err := svc.Login(ctx, Credentials{Email: "nina@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	session, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if err := svc.Logout(ctx, session); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected blacklisted token to be rejected, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	user := signup(t, svc, "nina@example.com")

	tests := []struct {
		name string
		id   uuid.UUID
		in   PasswordChange
		kind error
	}{
		{"missing old", user.ID, PasswordChange{NewPassword: "longenough"}, apperr.ErrInvalidInput},
		{"short new", user.ID, PasswordChange{OldPassword: "hunter22", NewPassword: "abc"}, apperr.ErrInvalidInput},
		{"short multibyte new", user.ID, PasswordChange{OldPassword: "hunter22", NewPassword: "äöü"}, apperr.ErrInvalidInput},
		{"new beyond bcrypt limit", user.ID, PasswordChange{OldPassword: "hunter22", NewPassword: strings.Repeat("a", 80)}, apperr.ErrInvalidInput},
		{"unknown user", uuid.New(), PasswordChange{OldPassword: "hunter22", NewPassword: "longenough"}, apperr.ErrNotFound},
		{"wrong old", user.ID, PasswordChange{OldPassword: "nope-nope", NewPassword: "longenough"}, apperr.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.UpdatePassword(ctx, tt.id, tt.in); !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}

	if err := svc.UpdatePassword(ctx, user.ID, PasswordChange{OldPassword: "hunter22", NewPassword: "longenough"}); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := svc.Login(ctx, Credentials{Email: "nina@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
}

func TestAddUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	signup(t, svc, "admin@example.com")

	editor, err := svc.Add(ctx, NewUser{Email: "ed@example.com", Password: "hunter22", Role: "Editor"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if editor.Role != store.RoleEditor {
		t.Fatalf("expected Editor, got %s", editor.Role)
	}

	for _, in := range []NewUser{
		{Email: "boss@example.com", Password: "hunter22", Role: "Admin"},
		{Email: "who@example.com", Password: "hunter22", Role: "Owner"},
		{Email: "who@example.com", Password: "hunter22"},
		{Email: "bad-email", Password: "hunter22", Role: "Viewer"},
		{Email: "short@example.com", Password: "abc", Role: "Viewer"},
		{Email: "long@example.com", Password: strings.Repeat("a", 80), Role: "Viewer"},
	} {
		if _, err := svc.Add(ctx, in); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}

	if _, err := svc.Add(ctx, NewUser{Email: "ed@example.com", Password: "hunter22", Role: "Viewer"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	signup(t, svc, "admin@example.com")
	signup(t, svc, "viewer@example.com")
	if _, err := svc.Add(ctx, NewUser{Email: "ed@example.com", Password: "hunter22", Role: "Editor"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all, err := svc.List(ctx, "", store.Page{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected admins to be excluded by default, got %+v", all)
	}

	admins, err := svc.List(ctx, "Admin", store.Page{})
	if err != nil {
		t.Fatalf("List admins: %v", err)
	}
	if len(admins) != 1 || admins[0].Email != "admin@example.com" {
		t.Fatalf("unexpected admins %+v", admins)
	}

	if _, err := svc.List(ctx, "Owner", store.Page{}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestDeleteUserKeepsSharedFavorites(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	user := signup(t, svc, "nina@example.com")

	artist, err := mem.CreateArtist(ctx, store.Artist{Name: "Nina"})
	if err != nil {
		t.Fatalf("CreateArtist: %v", err)
	}
	if _, err := mem.AddUserFavorite(ctx, user.ID, store.Favorite{ItemID: artist.ID, Category: store.CategoryArtist, Name: "Nina"}); err != nil {
		t.Fatalf("AddUserFavorite: %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mem.FavoriteCount() != 1 {
		t.Fatalf("expected shared favorite to survive user deletion")
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSignupCountsPasswordCharacters(t *testing.T) {
	svc, _ := newService(t)

	// Five characters, ten bytes.
	if _, err := svc.Signup(context.Background(), Credentials{Email: "umlaut@example.com", Password: "äöüßé"}); err != nil {
		t.Fatalf("expected five-character password to be accepted, got %v", err)
	}
}
