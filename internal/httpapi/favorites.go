package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/favorites"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := s.favorites.List(r.Context(), session.User.ID, mux.Vars(r)["category"], page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, list, "Favorites retrieved successfully.")
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var req favorites.NewFavorite
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	fav, err := s.favorites.Add(r.Context(), session.User.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, fav, "Favorite added successfully.")
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.favorites.Remove(r.Context(), session.User.ID, id); err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, nil, "Favorite removed successfully")
}
