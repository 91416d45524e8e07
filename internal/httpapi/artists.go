package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/store"
)

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	grammy, err := queryInt(r, "grammy")
	if err != nil {
		writeError(w, r, err)
		return
	}
	hidden, err := queryBool(r, "hidden")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := s.artists.List(r.Context(), store.ArtistFilter{Grammy: grammy, Hidden: hidden, Page: page})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, list, "Artists retrieved successfully.")
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	artist, err := s.artists.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, artist, "Artist retrieved successfully.")
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req artists.NewArtist
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	artist, err := s.artists.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, artist, "Artist created successfully.")
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch store.ArtistPatch
	if err := decodePatch(r, artists.PatchFields, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.artists.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	artist, err := s.artists.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"artist_id": artist.ID.String()},
		"Artist:"+artist.Name+" deleted successfully.")
}
