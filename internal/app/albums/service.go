package albums

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/store"
	"musiccatalog/internal/validation"
)

// PatchFields lists the keys an album update may carry.
var PatchFields = []string{"name", "year", "hidden"}

// Store captures the persistence needs for album workflows.
type Store interface {
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	AlbumByID(ctx context.Context, id uuid.UUID) (store.Album, error)
	ListAlbums(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error)
	UpdateAlbum(ctx context.Context, id uuid.UUID, patch store.AlbumPatch) error
	DeleteAlbum(ctx context.Context, id uuid.UUID) error
}

// Service coordinates album-related operations.
type Service interface {
	List(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error)
	Get(ctx context.Context, id uuid.UUID) (store.Album, error)
	Create(ctx context.Context, in NewAlbum) (store.Album, error)
	Update(ctx context.Context, id uuid.UUID, patch store.AlbumPatch) error
	Delete(ctx context.Context, id uuid.UUID) (store.Album, error)
}

// NewAlbum is the payload for creating an album.
type NewAlbum struct {
	ArtistID string `json:"artist_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required"`
	Year     *int   `json:"year" validate:"required,gt=0,lte=2147483647"`
	Hidden   *bool  `json:"hidden" validate:"required"`
}

type patchRules struct {
	Name   *string `json:"name" validate:"omitnil,min=1"`
	Year   *int    `json:"year" validate:"omitnil,gt=0,lte=2147483647"`
	Hidden *bool   `json:"hidden"`
}

const msgNotFound = "Album not found."

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

// List returns albums, optionally narrowed to one artist. A filter naming an
// unknown artist is reported as not found rather than as an empty page.
func (s *service) List(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if filter.ArtistID != nil {
		if _, err := s.store.ArtistByID(ctx, *filter.ArtistID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.NotFound("Artist not found, not valid artist ID.")
			}
			return nil, err
		}
	}
	return s.store.ListAlbums(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}

	album, err := s.store.AlbumByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Album{}, apperr.NotFound(msgNotFound)
	}
	return album, err
}

func (s *service) Create(ctx context.Context, in NewAlbum) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return store.Album{}, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	artistID := uuid.MustParse(in.ArtistID)

	artist, err := s.store.ArtistByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Album{}, apperr.NotFound("Artist not found.")
		}
		return store.Album{}, err
	}

	album, err := s.store.CreateAlbum(ctx, store.Album{
		Name:     in.Name,
		Year:     *in.Year,
		Hidden:   *in.Hidden,
		ArtistID: artistID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.Album{}, apperr.Conflict("Album already exists.")
		}
		return store.Album{}, err
	}
	album.ArtistName = artist.Name
	return album, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch store.AlbumPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Name == nil && patch.Year == nil && patch.Hidden == nil {
		return apperr.Invalid(apperr.BadRequest)
	}
	if err := validation.Struct(patchRules(patch)); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}

	if _, err := s.store.AlbumByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return err
	}

	switch err := s.store.UpdateAlbum(ctx, id, patch); {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(msgNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("Album already exists.")
	default:
		return err
	}
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}

	album, err := s.store.AlbumByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Album{}, apperr.NotFound(msgNotFound)
		}
		return store.Album{}, err
	}

	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Album{}, apperr.NotFound(msgNotFound)
		}
		return store.Album{}, err
	}
	return album, nil
}
