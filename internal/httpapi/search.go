package httpapi

import "net/http"

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	results, err := s.search.Search(r.Context(), r.URL.Query().Get("q"), n)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, results, "Search completed successfully.")
}
