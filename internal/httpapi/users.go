package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/users"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := s.users.List(r.Context(), r.URL.Query().Get("role"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, list, "Users retrieved successfully.")
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req users.NewUser
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.Add(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, user, "User created successfully.")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, nil, "User deleted successfully.")
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var req users.PasswordChange
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.users.UpdatePassword(r.Context(), session.User.ID, req); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
