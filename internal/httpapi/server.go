package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/app/favorites"
	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/app/users"
	"musiccatalog/internal/http/middleware"
	"musiccatalog/internal/search"
	"musiccatalog/internal/store"
)

// Options tunes the transport concerns around the handlers.
type Options struct {
	AllowedOrigins []string
	// AuthRateLimit caps signup and login requests per client IP per minute.
	AuthRateLimit int
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     users.Service
	artists   artists.Service
	albums    albums.Service
	tracks    tracks.Service
	favorites favorites.Service
	search    search.Service
	opts      Options
}

// New configures a Server with the given services.
func New(
	users users.Service,
	artists artists.Service,
	albums albums.Service,
	tracks tracks.Service,
	favorites favorites.Service,
	search search.Service,
	opts Options,
) *Server {
	return &Server{
		users:     users,
		artists:   artists,
		albums:    albums,
		tracks:    tracks,
		favorites: favorites,
		search:    search,
		opts:      opts,
	}
}

// Routes exposes the HTTP handlers wrapped in the shared middleware chain.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	limited := middleware.RateLimit(s.opts.AuthRateLimit)
	api.Handle("/signup", limited(http.HandlerFunc(s.handleSignup))).Methods(http.MethodPost)
	api.Handle("/login", limited(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)

	admin := requireRole(store.RoleAdmin)
	editor := requireRole(store.RoleEditor, store.RoleAdmin)

	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	// Users
	authed.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users/update-password", s.handleUpdatePassword).Methods(http.MethodPut)
	authed.Handle("/users/add-user", admin(s.handleAddUser)).Methods(http.MethodPost)
	authed.Handle("/users/{id}", admin(s.handleDeleteUser)).Methods(http.MethodDelete)

	// Artists
	authed.HandleFunc("/artists", s.handleListArtists).Methods(http.MethodGet)
	authed.Handle("/artists/add-artist", admin(s.handleCreateArtist)).Methods(http.MethodPost)
	authed.HandleFunc("/artists/{id}", s.handleGetArtist).Methods(http.MethodGet)
	authed.Handle("/artists/{id}", editor(s.handleUpdateArtist)).Methods(http.MethodPut)
	authed.Handle("/artists/{id}", editor(s.handleDeleteArtist)).Methods(http.MethodDelete)

	// Albums
	authed.HandleFunc("/albums", s.handleListAlbums).Methods(http.MethodGet)
	authed.Handle("/albums/add-album", admin(s.handleCreateAlbum)).Methods(http.MethodPost)
	authed.HandleFunc("/albums/{id}", s.handleGetAlbum).Methods(http.MethodGet)
	authed.Handle("/albums/{id}", editor(s.handleUpdateAlbum)).Methods(http.MethodPut)
	authed.Handle("/albums/{id}", editor(s.handleDeleteAlbum)).Methods(http.MethodDelete)

	// Tracks
	authed.HandleFunc("/tracks", s.handleListTracks).Methods(http.MethodGet)
	authed.Handle("/tracks/add-track", admin(s.handleCreateTrack)).Methods(http.MethodPost)
	authed.HandleFunc("/tracks/{id}", s.handleGetTrack).Methods(http.MethodGet)
	authed.Handle("/tracks/{id}", editor(s.handleUpdateTrack)).Methods(http.MethodPut)
	authed.Handle("/tracks/{id}", editor(s.handleDeleteTrack)).Methods(http.MethodDelete)

	// Favorites
	authed.HandleFunc("/favorites/add-favorite", s.handleAddFavorite).Methods(http.MethodPost)
	authed.HandleFunc("/favorites/remove-favorite/{id}", s.handleRemoveFavorite).Methods(http.MethodDelete)
	authed.HandleFunc("/favorites/{category}", s.handleListFavorites).Methods(http.MethodGet)

	authed.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusNotFound, nil, "Route not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusMethodNotAllowed, nil, "Method not allowed.")
	})

	var handler http.Handler = r
	handler = middleware.CORS(s.opts.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"}, "OK")
}
