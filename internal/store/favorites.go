package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category names the catalogue table a favorite points into.
type Category string

const (
	CategoryArtist Category = "artist"
	CategoryAlbum  Category = "album"
	CategoryTrack  Category = "track"
)

// ParseCategory maps a raw category name onto a known Category.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(raw); c {
	case CategoryArtist, CategoryAlbum, CategoryTrack:
		return c, true
	}
	return "", false
}

// Favorite is a bookmark on a catalogue item, shared by every user who holds it.
type Favorite struct {
	ID        uuid.UUID `json:"favorite_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Category  Category  `json:"category"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteByID fetches a favorite row.
func (s *Store) FavoriteByID(ctx context.Context, id uuid.UUID) (Favorite, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, item_id, category, name, created_at
		FROM favorites
		WHERE id = $1
	`, id)
	return scanFavorite(row)
}

// UserHoldsItem reports whether the user already references the favorite for itemID.
func (s *Store) UserHoldsItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var held bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM user_favorites uf
			JOIN favorites f ON f.id = uf.favorite_id
			WHERE uf.user_id = $1 AND f.item_id = $2
		)
	`, userID, itemID).Scan(&held)
	if err != nil {
		return false, fmt.Errorf("check user favorite: %w", err)
	}
	return held, nil
}

// ListUserFavorites returns the user's favorites in one category, in the order they were added.
func (s *Store) ListUserFavorites(ctx context.Context, userID uuid.UUID, category Category, page Page) ([]Favorite, error) {
	query, args := paginate(`
		SELECT f.id, f.item_id, f.category, f.name, f.created_at
		FROM user_favorites uf
		JOIN favorites f ON f.id = uf.favorite_id
		WHERE uf.user_id = $1 AND f.category = $2
		ORDER BY uf.seq ASC`, []any{userID, string(category)}, page)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]Favorite, 0)
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

// AddUserFavorite appends a reference to the shared favorite for fav.ItemID,
// creating the favorite first when no user has bookmarked the item yet.
// An existing favorite keeps its original name snapshot.
func (s *Store) AddUserFavorite(ctx context.Context, userID uuid.UUID, fav Favorite) (Favorite, error) {
	var stored Favorite
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO favorites (item_id, category, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (item_id) DO UPDATE SET item_id = EXCLUDED.item_id
			RETURNING id, item_id, category, name, created_at
		`, fav.ItemID, string(fav.Category), fav.Name)

		var err error
		stored, err = scanFavorite(row)
		if err != nil {
			return fmt.Errorf("upsert favorite: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_favorites (user_id, favorite_id)
			VALUES ($1, $2)
		`, userID, stored.ID); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert user favorite: %w", err)
		}
		return nil
	})
	if err != nil {
		return Favorite{}, err
	}
	return stored, nil
}

// RemoveUserFavorite pulls the favorite from the user's list. The shared
// favorite row is kept even when no user references it any more.
func (s *Store) RemoveUserFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM user_favorites
		WHERE user_id = $1 AND favorite_id = $2
	`, userID, favoriteID); err != nil {
		return fmt.Errorf("delete user favorite: %w", err)
	}
	return nil
}

// deleteCatalogItem removes a row from an artists/albums/tracks table and, in the
// same transaction, the favorite bookmarking it along with every user's reference.
func (s *Store) deleteCatalogItem(ctx context.Context, table string, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM user_favorites
			WHERE favorite_id IN (SELECT id FROM favorites WHERE item_id = $1)
		`, id); err != nil {
			return fmt.Errorf("pull favorite references: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM favorites
			WHERE item_id = $1
		`, id); err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
		return rowsAffected(res, "delete "+table)
	})
}

func scanFavorite(row rowScanner) (Favorite, error) {
	var (
		f        Favorite
		category string
	)
	if err := row.Scan(&f.ID, &f.ItemID, &category, &f.Name, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Favorite{}, ErrNotFound
		}
		return Favorite{}, fmt.Errorf("scan favorite: %w", err)
	}
	f.Category = Category(category)
	return f, nil
}
