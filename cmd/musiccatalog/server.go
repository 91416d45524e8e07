package main

import (
	"database/sql"
	"net/http"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/app/favorites"
	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/app/users"
	"musiccatalog/internal/auth"
	"musiccatalog/internal/config"
	"musiccatalog/internal/httpapi"
	"musiccatalog/internal/search"
	"musiccatalog/internal/store"
)

func newHTTPHandler(cfg *config.Config, db *sql.DB, dataStore *store.Store) http.Handler {
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	api := httpapi.New(
		users.New(dataStore, tokens),
		artists.New(dataStore),
		albums.New(dataStore),
		tracks.New(dataStore),
		favorites.New(dataStore),
		search.New(search.NewPGStore(db)),
		httpapi.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AuthRateLimit:  cfg.Auth.RateLimit,
		},
	)
	return api.Routes()
}
