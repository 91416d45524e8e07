package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/store"
	"musiccatalog/internal/validation"
)

// Store defines persistence operations required for favorites workflows.
type Store interface {
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
	AlbumByID(ctx context.Context, id uuid.UUID) (store.Album, error)
	TrackByID(ctx context.Context, id uuid.UUID) (store.Track, error)

	FavoriteByID(ctx context.Context, id uuid.UUID) (store.Favorite, error)
	UserHoldsItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	ListUserFavorites(ctx context.Context, userID uuid.UUID, category store.Category, page store.Page) ([]store.Favorite, error)
	AddUserFavorite(ctx context.Context, userID uuid.UUID, fav store.Favorite) (store.Favorite, error)
	RemoveUserFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, category string, page store.Page) ([]store.Favorite, error)
	Add(ctx context.Context, userID uuid.UUID, in NewFavorite) (store.Favorite, error)
	Remove(ctx context.Context, userID, favoriteID uuid.UUID) error
}

// NewFavorite is the payload for bookmarking a catalogue item.
type NewFavorite struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Category string `json:"category" validate:"required,oneof=artist album track"`
}

// itemLookup resolves a catalogue item's display name, or store.ErrNotFound.
type itemLookup func(ctx context.Context, id uuid.UUID) (string, error)

const msgAlreadyHeld = "The given item is already present in the favorite"

type service struct {
	store   Store
	lookups map[store.Category]itemLookup
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{
		store: st,
		lookups: map[store.Category]itemLookup{
			store.CategoryArtist: func(ctx context.Context, id uuid.UUID) (string, error) {
				a, err := st.ArtistByID(ctx, id)
				return a.Name, err
			},
			store.CategoryAlbum: func(ctx context.Context, id uuid.UUID) (string, error) {
				a, err := st.AlbumByID(ctx, id)
				return a.Name, err
			},
			store.CategoryTrack: func(ctx context.Context, id uuid.UUID) (string, error) {
				t, err := st.TrackByID(ctx, id)
				return t.Name, err
			},
		},
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, category string, page store.Page) ([]store.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat, ok := store.ParseCategory(category)
	if !ok {
		return nil, apperr.Invalid(apperr.BadRequest)
	}
	return s.store.ListUserFavorites(ctx, userID, cat, page)
}

// Add bookmarks an item for the user. The favorite row is shared across users
// and created on first use; each user holds at most one reference to it.
func (s *service) Add(ctx context.Context, userID uuid.UUID, in NewFavorite) (store.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return store.Favorite{}, err
	}

	if err := validation.Struct(in); err != nil {
		return store.Favorite{}, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	category, _ := store.ParseCategory(in.Category)
	itemID := uuid.MustParse(in.ItemID)

	name, err := s.lookups[category](ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Favorite{}, apperr.NotFound("Item not found in this category.")
		}
		return store.Favorite{}, err
	}

	held, err := s.store.UserHoldsItem(ctx, userID, itemID)
	if err != nil {
		return store.Favorite{}, err
	}
	if held {
		return store.Favorite{}, apperr.Invalid(msgAlreadyHeld)
	}

	fav, err := s.store.AddUserFavorite(ctx, userID, store.Favorite{
		ItemID:   itemID,
		Category: category,
		Name:     name,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return store.Favorite{}, apperr.Invalid(msgAlreadyHeld)
	}
	return fav, err
}

// Remove pulls the favorite from the user's list only; the shared row stays.
func (s *service) Remove(ctx context.Context, userID, favoriteID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.FavoriteByID(ctx, favoriteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Favorite not found.")
		}
		return err
	}
	return s.store.RemoveUserFavorite(ctx, userID, favoriteID)
}
