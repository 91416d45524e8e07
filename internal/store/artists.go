package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Artist is a catalogue performer.
type Artist struct {
	ID        uuid.UUID `json:"artist_id"`
	Name      string    `json:"name"`
	Grammy    int       `json:"grammy"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtistFilter constrains the results returned by ListArtists.
type ArtistFilter struct {
	Grammy *int
	Hidden *bool
	Page
}

// ArtistPatch carries the fields of an artist that may change after creation.
type ArtistPatch struct {
	Name   *string `json:"name"`
	Grammy *int    `json:"grammy"`
	Hidden *bool   `json:"hidden"`
}

// CreateArtist inserts a new artist.
func (s *Store) CreateArtist(ctx context.Context, artist Artist) (Artist, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name, grammy, hidden)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, artist.Name, artist.Grammy, artist.Hidden).Scan(&artist.ID, &artist.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Artist{}, ErrDuplicate
		}
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}
	return artist, nil
}

// ArtistByID fetches a single artist.
func (s *Store) ArtistByID(ctx context.Context, id uuid.UUID) (Artist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, grammy, hidden, created_at
		FROM artists
		WHERE id = $1
	`, id)
	return scanArtist(row)
}

// ListArtists returns artists matching the provided filter.
func (s *Store) ListArtists(ctx context.Context, filter ArtistFilter) ([]Artist, error) {
	query := `
		SELECT id, name, grammy, hidden, created_at
		FROM artists
		WHERE TRUE`

	var args []any
	if filter.Grammy != nil {
		args = append(args, *filter.Grammy)
		query += fmt.Sprintf(" AND grammy = $%d", len(args))
	}
	if filter.Hidden != nil {
		args = append(args, *filter.Hidden)
		query += fmt.Sprintf(" AND hidden = $%d", len(args))
	}
	query += " ORDER BY created_at ASC, id ASC"
	query, args = paginate(query, args, filter.Page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select artists: %w", err)
	}
	defer rows.Close()

	artists := make([]Artist, 0)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// UpdateArtist applies the non-nil fields of patch.
func (s *Store) UpdateArtist(ctx context.Context, id uuid.UUID, patch ArtistPatch) error {
	var sets []assignment
	if patch.Name != nil {
		sets = append(sets, assignment{"name", *patch.Name})
	}
	if patch.Grammy != nil {
		sets = append(sets, assignment{"grammy", *patch.Grammy})
	}
	if patch.Hidden != nil {
		sets = append(sets, assignment{"hidden", *patch.Hidden})
	}
	return s.updateRow(ctx, "artists", id, sets)
}

// DeleteArtist removes an artist together with the favorite that bookmarks it.
// Albums and tracks pointing at the artist are left in place.
func (s *Store) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	return s.deleteCatalogItem(ctx, "artists", id)
}

func scanArtist(row rowScanner) (Artist, error) {
	var a Artist
	if err := row.Scan(&a.ID, &a.Name, &a.Grammy, &a.Hidden, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, ErrNotFound
		}
		return Artist{}, fmt.Errorf("scan artist: %w", err)
	}
	return a, nil
}
