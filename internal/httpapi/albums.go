package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/store"
)

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	artistID, err := queryUUID(r, "artist_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	hidden, err := queryBool(r, "hidden")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := s.albums.List(r.Context(), store.AlbumFilter{ArtistID: artistID, Hidden: hidden, Page: page})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, list, "Albums fetched successfully.")
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	album, err := s.albums.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, album, "Album fetched successfully.")
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albums.NewAlbum
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	album, err := s.albums.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, album, "Album created successfully.")
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch store.AlbumPatch
	if err := decodePatch(r, albums.PatchFields, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.albums.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	album, err := s.albums.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, nil, "Album:"+album.Name+" deleted successfully.")
}
