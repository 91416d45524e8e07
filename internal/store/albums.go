package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Album is a release by a single artist.
type Album struct {
	ID         uuid.UUID `json:"album_id"`
	Name       string    `json:"name"`
	Year       int       `json:"year"`
	Hidden     bool      `json:"hidden"`
	ArtistID   uuid.UUID `json:"artist_id"`
	ArtistName string    `json:"artist_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// AlbumFilter constrains the results returned by ListAlbums.
type AlbumFilter struct {
	ArtistID *uuid.UUID
	Hidden   *bool
	Page
}

// AlbumPatch carries the fields of an album that may change after creation.
type AlbumPatch struct {
	Name   *string `json:"name"`
	Year   *int    `json:"year"`
	Hidden *bool   `json:"hidden"`
}

const selectAlbums = `
		SELECT al.id, al.name, al.year, al.hidden, al.artist_id, COALESCE(ar.name, ''), al.created_at
		FROM albums al
		LEFT JOIN artists ar ON ar.id = al.artist_id`

// CreateAlbum inserts a new album. The caller is expected to have checked the artist exists.
func (s *Store) CreateAlbum(ctx context.Context, album Album) (Album, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO albums (name, year, hidden, artist_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, album.Name, album.Year, album.Hidden, album.ArtistID).Scan(&album.ID, &album.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Album{}, ErrDuplicate
		}
		return Album{}, fmt.Errorf("insert album: %w", err)
	}
	return album, nil
}

// AlbumByID fetches a single album with its artist's name.
func (s *Store) AlbumByID(ctx context.Context, id uuid.UUID) (Album, error) {
	row := s.db.QueryRowContext(ctx, selectAlbums+`
		WHERE al.id = $1`, id)
	return scanAlbum(row)
}

// ListAlbums returns albums matching the provided filter.
func (s *Store) ListAlbums(ctx context.Context, filter AlbumFilter) ([]Album, error) {
	query := selectAlbums + `
		WHERE TRUE`

	var args []any
	if filter.ArtistID != nil {
		args = append(args, *filter.ArtistID)
		query += fmt.Sprintf(" AND al.artist_id = $%d", len(args))
	}
	if filter.Hidden != nil {
		args = append(args, *filter.Hidden)
		query += fmt.Sprintf(" AND al.hidden = $%d", len(args))
	}
	query += " ORDER BY al.created_at ASC, al.id ASC"
	query, args = paginate(query, args, filter.Page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select albums: %w", err)
	}
	defer rows.Close()

	albums, err := scanAlbumRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// UpdateAlbum applies the non-nil fields of patch.
func (s *Store) UpdateAlbum(ctx context.Context, id uuid.UUID, patch AlbumPatch) error {
	var sets []assignment
	if patch.Name != nil {
		sets = append(sets, assignment{"name", *patch.Name})
	}
	if patch.Year != nil {
		sets = append(sets, assignment{"year", *patch.Year})
	}
	if patch.Hidden != nil {
		sets = append(sets, assignment{"hidden", *patch.Hidden})
	}
	return s.updateRow(ctx, "albums", id, sets)
}

// DeleteAlbum removes an album together with the favorite that bookmarks it.
func (s *Store) DeleteAlbum(ctx context.Context, id uuid.UUID) error {
	return s.deleteCatalogItem(ctx, "albums", id)
}

func scanAlbum(row rowScanner) (Album, error) {
	var a Album
	if err := row.Scan(&a.ID, &a.Name, &a.Year, &a.Hidden, &a.ArtistID, &a.ArtistName, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, ErrNotFound
		}
		return Album{}, fmt.Errorf("scan album: %w", err)
	}
	return a, nil
}

func scanAlbumRows(rows *sql.Rows) ([]Album, error) {
	albums := make([]Album, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, nil
}
