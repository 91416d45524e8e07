package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/store"
)

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := store.TrackFilter{Page: page}
	if filter.ArtistID, err = queryUUID(r, "artist_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.AlbumID, err = queryUUID(r, "album_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Hidden, err = queryBool(r, "hidden"); err != nil {
		writeError(w, r, err)
		return
	}

	list, err := s.tracks.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, list, "Tracks retrieved successfully.")
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	track, err := s.tracks.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, track, "Track fetched successfully.")
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	var req tracks.NewTrack
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	track, err := s.tracks.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, track, "Track created successfully.")
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch store.TrackPatch
	if err := decodePatch(r, tracks.PatchFields, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.tracks.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	track, err := s.tracks.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, nil, "Track:"+track.Name+" deleted successfully.")
}
