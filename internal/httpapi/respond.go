package httpapi

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/logging"
	"musiccatalog/internal/store"
)

// envelope is the shape of every JSON response body.
type envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Error   any    `json:"error"`
}

const (
	defaultLimit = 5
	msgInternal  = "Internal Server Error"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Status: status, Data: data, Message: message})
}

// writeError maps an error onto a status code and envelope. Errors without
// a known kind surface as 500 with their text in the error field.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	env := envelope{Status: status, Message: err.Error()}

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Cause() != nil {
		env.Error = appErr.Cause().Error()
	}

	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		env.Message = msgInternal
		env.Error = err.Error()
	}

	writeJSON(w, status, env)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrStaleSession):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest() error {
	return apperr.Invalid(apperr.BadRequest)
}

// decodeBody reads a JSON object into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	return nil
}

// decodePatch reads a partial update. The body must be a non-empty object
// whose keys all appear in allowed; values are then decoded into dst.
func decodePatch(r *http.Request, allowed []string, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	if len(fields) == 0 {
		return badRequest()
	}
	for key := range fields {
		if !slices.Contains(allowed, key) {
			return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, errors.New(key+" cannot be updated"))
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	return nil
}

// parsePage reads limit and offset. Both default when absent and must be
// non-negative integers when present.
func parsePage(r *http.Request) (store.Page, error) {
	page := store.Page{Limit: defaultLimit}
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return store.Page{}, badRequest()
		}
		page.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return store.Page{}, badRequest()
		}
		page.Offset = n
	}
	return page, nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	return id, nil
}

// Optional query filters. An absent parameter yields nil.

func queryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest()
	}
	return &n, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badRequest()
	}
	return &b, nil
}
