package tracks

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/store"
	"musiccatalog/internal/validation"
)

// PatchFields lists the keys a track update may carry.
var PatchFields = []string{"name", "duration", "hidden"}

// Store captures the persistence needs for track workflows.
type Store interface {
	ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error)
	AlbumByID(ctx context.Context, id uuid.UUID) (store.Album, error)
	CreateTrack(ctx context.Context, track store.Track) (store.Track, error)
	TrackByID(ctx context.Context, id uuid.UUID) (store.Track, error)
	ListTracks(ctx context.Context, filter store.TrackFilter) ([]store.Track, error)
	UpdateTrack(ctx context.Context, id uuid.UUID, patch store.TrackPatch) error
	DeleteTrack(ctx context.Context, id uuid.UUID) error
}

// Service coordinates track-related operations.
type Service interface {
	List(ctx context.Context, filter store.TrackFilter) ([]store.Track, error)
	Get(ctx context.Context, id uuid.UUID) (store.Track, error)
	Create(ctx context.Context, in NewTrack) (store.Track, error)
	Update(ctx context.Context, id uuid.UUID, patch store.TrackPatch) error
	Delete(ctx context.Context, id uuid.UUID) (store.Track, error)
}

// NewTrack is the payload for creating a track.
type NewTrack struct {
	ArtistID string `json:"artist_id" validate:"required,uuid"`
	AlbumID  string `json:"album_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required"`
	Duration *int   `json:"duration" validate:"required,gt=0,lte=2147483647"`
	Hidden   *bool  `json:"hidden" validate:"required"`
}

type patchRules struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Duration *int    `json:"duration" validate:"omitnil,gt=0,lte=2147483647"`
	Hidden   *bool   `json:"hidden"`
}

const (
	msgNotFound       = "Track not found."
	msgArtistNotFound = "Artist not found."
	msgAlbumNotFound  = "Album not found."
)

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, filter store.TrackFilter) ([]store.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if filter.ArtistID != nil {
		if _, err := s.requireArtist(ctx, *filter.ArtistID); err != nil {
			return nil, err
		}
	}
	if filter.AlbumID != nil {
		if _, err := s.requireAlbum(ctx, *filter.AlbumID); err != nil {
			return nil, err
		}
	}
	return s.store.ListTracks(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.Track, error) {
	if err := ctx.Err(); err != nil {
		return store.Track{}, err
	}

	track, err := s.store.TrackByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Track{}, apperr.NotFound(msgNotFound)
	}
	return track, err
}

// Create inserts a track after confirming its artist and then its album exist.
func (s *service) Create(ctx context.Context, in NewTrack) (store.Track, error) {
	if err := ctx.Err(); err != nil {
		return store.Track{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return store.Track{}, apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}
	artistID := uuid.MustParse(in.ArtistID)
	albumID := uuid.MustParse(in.AlbumID)

	artist, err := s.requireArtist(ctx, artistID)
	if err != nil {
		return store.Track{}, err
	}
	album, err := s.requireAlbum(ctx, albumID)
	if err != nil {
		return store.Track{}, err
	}

	track, err := s.store.CreateTrack(ctx, store.Track{
		Name:     in.Name,
		Duration: *in.Duration,
		Hidden:   *in.Hidden,
		ArtistID: artistID,
		AlbumID:  albumID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.Track{}, apperr.Conflict("Track already exists.")
		}
		return store.Track{}, err
	}
	track.ArtistName = artist.Name
	track.AlbumName = album.Name
	return track, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch store.TrackPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Name == nil && patch.Duration == nil && patch.Hidden == nil {
		return apperr.Invalid(apperr.BadRequest)
	}
	if err := validation.Struct(patchRules(patch)); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, apperr.BadRequest, err)
	}

	if _, err := s.store.TrackByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return err
	}

	if err := s.store.UpdateTrack(ctx, id, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return err
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (store.Track, error) {
	if err := ctx.Err(); err != nil {
		return store.Track{}, err
	}

	track, err := s.store.TrackByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Track{}, apperr.NotFound(msgNotFound)
		}
		return store.Track{}, err
	}

	if err := s.store.DeleteTrack(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Track{}, apperr.NotFound(msgNotFound)
		}
		return store.Track{}, err
	}
	return track, nil
}

func (s *service) requireArtist(ctx context.Context, id uuid.UUID) (store.Artist, error) {
	artist, err := s.store.ArtistByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Artist{}, apperr.NotFound(msgArtistNotFound)
		}
		return store.Artist{}, err
	}
	return artist, nil
}

func (s *service) requireAlbum(ctx context.Context, id uuid.UUID) (store.Album, error) {
	album, err := s.store.AlbumByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Album{}, apperr.NotFound(msgAlbumNotFound)
		}
		return store.Album{}, err
	}
	return album, nil
}
