package artists

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/store"
	"musiccatalog/internal/validation"
)

// PatchFields lists the keys an artist update may carry.
var PatchFields = []string{"name", "grammy", "hidden"}

// Store captures the persistence needs for artist workflows.
type Store interface {
	CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
	ListArtists(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error)
	UpdateArtist(ctx context.Context, id uuid.UUID, patch store.ArtistPatch) error
	DeleteArtist(ctx context.Context, id uuid.UUID) error
}

// Service coordinates artist-related operations.
type Service interface {
	List(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error)
	Get(ctx context.Context, id uuid.UUID) (store.Artist, error)
	Create(ctx context.Context, in NewArtist) (store.Artist, error)
	Update(ctx context.Context, id uuid.UUID, patch store.ArtistPatch) error
	Delete(ctx context.Context, id uuid.UUID) (store.Artist, error)
}

// NewArtist is the payload for creating an artist. Every field is required.
type NewArtist struct {
	Name   string `json:"name" validate:"required"`
	Grammy *int   `json:"grammy" validate:"required,gte=0,lte=2147483647"`
	Hidden *bool  `json:"hidden" validate:"required"`
}

type patchRules struct {
	Name   *string `json:"name" validate:"omitnil,min=1"`
	Grammy *int    `json:"grammy" validate:"omitnil,gte=0,lte=2147483647"`
	Hidden *bool   `json:"hidden"`
}

const msgNotFound = "Artist not found."

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return store.Artist{}, err
	}

	artist, err := s.store.ArtistByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Artist{}, apperr.NotFound(msgNotFound)
	}
	return artist, err
}

func (s *service) Create(ctx context.Context, in NewArtist) (store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return store.Artist{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return store.Artist{}, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}

	artist, err := s.store.CreateArtist(ctx, store.Artist{Name: in.Name, Grammy: *in.Grammy, Hidden: *in.Hidden})
	if errors.Is(err, store.ErrDuplicate) {
		return store.Artist{}, apperr.Conflict("Artist already exists.")
	}
	return artist, err
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch store.ArtistPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Name == nil && patch.Grammy == nil && patch.Hidden == nil {
		return apperr.Invalid(apperr.BadRequest)
	}
	if err := validation.Struct(patchRules(patch)); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}

	if _, err := s.store.ArtistByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return err
	}

	switch err := s.store.UpdateArtist(ctx, id, patch); {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(msgNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("Artist already exists.")
	default:
		return err
	}
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return store.Artist{}, err
	}

	artist, err := s.store.ArtistByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Artist{}, apperr.NotFound(msgNotFound)
		}
		return store.Artist{}, err
	}

	if err := s.store.DeleteArtist(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Artist{}, apperr.NotFound(msgNotFound)
		}
		return store.Artist{}, err
	}
	return artist, nil
}
