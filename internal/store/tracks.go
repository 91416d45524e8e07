package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Track is a single recording on an album.
type Track struct {
	ID         uuid.UUID `json:"track_id"`
	Name       string    `json:"name"`
	Duration   int       `json:"duration"`
	Hidden     bool      `json:"hidden"`
	ArtistID   uuid.UUID `json:"artist_id"`
	AlbumID    uuid.UUID `json:"album_id"`
	ArtistName string    `json:"artist_name"`
	AlbumName  string    `json:"album_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrackFilter constrains the results returned by ListTracks.
type TrackFilter struct {
	ArtistID *uuid.UUID
	AlbumID  *uuid.UUID
	Hidden   *bool
	Page
}

// TrackPatch carries the fields of a track that may change after creation.
type TrackPatch struct {
	Name     *string `json:"name"`
	Duration *int    `json:"duration"`
	Hidden   *bool   `json:"hidden"`
}

const selectTracks = `
		SELECT t.id, t.name, t.duration, t.hidden, t.artist_id, t.album_id,
		       COALESCE(ar.name, ''), COALESCE(al.name, ''), t.created_at
		FROM tracks t
		LEFT JOIN artists ar ON ar.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id`

// CreateTrack inserts a new track.
func (s *Store) CreateTrack(ctx context.Context, track Track) (Track, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tracks (name, duration, hidden, artist_id, album_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, track.Name, track.Duration, track.Hidden, track.ArtistID, track.AlbumID).Scan(&track.ID, &track.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Track{}, ErrDuplicate
		}
		return Track{}, fmt.Errorf("insert track: %w", err)
	}
	return track, nil
}

// TrackByID fetches a single track with its artist and album names.
func (s *Store) TrackByID(ctx context.Context, id uuid.UUID) (Track, error) {
	row := s.db.QueryRowContext(ctx, selectTracks+`
		WHERE t.id = $1`, id)
	return scanTrack(row)
}

// ListTracks returns tracks matching the provided filter.
func (s *Store) ListTracks(ctx context.Context, filter TrackFilter) ([]Track, error) {
	query := selectTracks + `
		WHERE TRUE`

	var args []any
	if filter.ArtistID != nil {
		args = append(args, *filter.ArtistID)
		query += fmt.Sprintf(" AND t.artist_id = $%d", len(args))
	}
	if filter.AlbumID != nil {
		args = append(args, *filter.AlbumID)
		query += fmt.Sprintf(" AND t.album_id = $%d", len(args))
	}
	if filter.Hidden != nil {
		args = append(args, *filter.Hidden)
		query += fmt.Sprintf(" AND t.hidden = $%d", len(args))
	}
	query += " ORDER BY t.created_at ASC, t.id ASC"
	query, args = paginate(query, args, filter.Page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// UpdateTrack applies the non-nil fields of patch.
func (s *Store) UpdateTrack(ctx context.Context, id uuid.UUID, patch TrackPatch) error {
	var sets []assignment
	if patch.Name != nil {
		sets = append(sets, assignment{"name", *patch.Name})
	}
	if patch.Duration != nil {
		sets = append(sets, assignment{"duration", *patch.Duration})
	}
	if patch.Hidden != nil {
		sets = append(sets, assignment{"hidden", *patch.Hidden})
	}
	return s.updateRow(ctx, "tracks", id, sets)
}

// DeleteTrack removes a track together with the favorite that bookmarks it.
func (s *Store) DeleteTrack(ctx context.Context, id uuid.UUID) error {
	return s.deleteCatalogItem(ctx, "tracks", id)
}

func scanTrack(row rowScanner) (Track, error) {
	var t Track
	err := row.Scan(&t.ID, &t.Name, &t.Duration, &t.Hidden, &t.ArtistID, &t.AlbumID,
		&t.ArtistName, &t.AlbumName, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Track{}, ErrNotFound
		}
		return Track{}, fmt.Errorf("scan track: %w", err)
	}
	return t, nil
}
