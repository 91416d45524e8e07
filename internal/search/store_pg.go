package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// NewPGStore creates a Store backed by the supplied database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Search performs a fan-out query across artists, albums and tracks.
// Hidden entries never match.
func (s *PGStore) Search(ctx context.Context, query string, limit int) (Results, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	like := "%" + escapeLike(query) + "%"

	artists, err := s.fetchArtists(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	albums, err := s.fetchAlbums(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	tracks, err := s.fetchTracks(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	return Results{Artists: artists, Albums: albums, Tracks: tracks}, nil
}

func (s *PGStore) fetchArtists(ctx context.Context, like string, limit int) ([]ArtistResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ar.id, ar.name, COUNT(al.id) AS album_count
		FROM artists ar
		LEFT JOIN albums al ON al.artist_id = ar.id AND NOT al.hidden
		WHERE NOT ar.hidden AND ar.name ILIKE $1
		GROUP BY ar.id, ar.name
		ORDER BY album_count DESC, ar.name ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()

	results := make([]ArtistResult, 0)
	for rows.Next() {
		var r ArtistResult
		if err := rows.Scan(&r.ID, &r.Name, &r.AlbumCount); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return results, nil
}

func (s *PGStore) fetchAlbums(ctx context.Context, like string, limit int) ([]AlbumResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT al.id, al.name, COALESCE(ar.name, ''), al.year
		FROM albums al
		LEFT JOIN artists ar ON ar.id = al.artist_id
		WHERE NOT al.hidden AND (al.name ILIKE $1 OR ar.name ILIKE $1)
		ORDER BY al.year DESC, al.name ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search albums: %w", err)
	}
	defer rows.Close()

	results := make([]AlbumResult, 0)
	for rows.Next() {
		var r AlbumResult
		if err := rows.Scan(&r.ID, &r.Name, &r.Artist, &r.Year); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return results, nil
}

func (s *PGStore) fetchTracks(ctx context.Context, like string, limit int) ([]TrackResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, COALESCE(ar.name, ''), COALESCE(al.name, '')
		FROM tracks t
		LEFT JOIN artists ar ON ar.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id
		WHERE NOT t.hidden AND (t.name ILIKE $1 OR ar.name ILIKE $1)
		ORDER BY t.name ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	defer rows.Close()

	results := make([]TrackResult, 0)
	for rows.Next() {
		var r TrackResult
		if err := rows.Scan(&r.ID, &r.Name, &r.Artist, &r.Album); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
