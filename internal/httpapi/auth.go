package httpapi

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"musiccatalog/internal/app/users"
	"musiccatalog/internal/apperr"
	"musiccatalog/internal/logging"
	"musiccatalog/internal/store"
)

type ctxKey int

const sessionKey ctxKey = iota

const msgForbidden = "Forbidden Access/Operation not allowed."

// requireAuth resolves the bearer token to a session or rejects the request.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := parseBearerToken(r.Header.Get("Authorization"))

		session, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		ctx = logging.WithUserID(ctx, session.User.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole admits sessions whose current role is one of roles. It must
// run behind requireAuth.
func requireRole(roles ...store.Role) func(http.HandlerFunc) http.Handler {
	return func(next http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := sessionFrom(r.Context())
			if !ok || !slices.Contains(roles, session.User.Role) {
				writeError(w, r, apperr.Forbidden(msgForbidden))
				return
			}
			next(w, r)
		})
	}
}

func sessionFrom(ctx context.Context) (users.Session, bool) {
	session, ok := ctx.Value(sessionKey).(users.Session)
	return session, ok
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req users.Credentials
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, user, "User created successfully.")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req users.Credentials
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, tokenResponse{Token: token}, "Login successful.")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	if err := s.users.Logout(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, nil, "User logged out successfully.")
}
