// Package search looks up visible catalog entries by name.
package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Store defines the persistence operations required by catalog search.
type Store interface {
	Search(ctx context.Context, query string, limit int) (Results, error)
}

// Service answers catalog search requests.
type Service interface {
	Search(ctx context.Context, query string, limit int) (Response, error)
}

// Results captures the different match buckets returned by a Store.
type Results struct {
	Artists []ArtistResult
	Albums  []AlbumResult
	Tracks  []TrackResult
}

// ArtistResult summarises an artist match.
type ArtistResult struct {
	ID         uuid.UUID
	Name       string
	AlbumCount int
}

// AlbumResult summarises an album match.
type AlbumResult struct {
	ID     uuid.UUID
	Name   string
	Artist string
	Year   int
}

// TrackResult summarises a track match.
type TrackResult struct {
	ID     uuid.UUID
	Name   string
	Artist string
	Album  string
}

// Response groups matches into named sections. Empty buckets are omitted.
type Response struct {
	Query    string    `json:"query"`
	Sections []Section `json:"sections"`
}

// Section groups related search results.
type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item represents a single search result entry.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Href     string    `json:"href"`
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Search(ctx context.Context, query string, limit int) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return Response{}, apperr.Invalid("Query parameter q is required.")
	}
	switch {
	case limit < 0:
		return Response{}, apperr.Invalid("Limit must not be negative.")
	case limit == 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}

	results, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return Response{}, err
	}
	return buildResponse(query, results), nil
}

func buildResponse(query string, results Results) Response {
	sections := []Section{}

	if len(results.Artists) > 0 {
		items := make([]Item, 0, len(results.Artists))
		for _, artist := range results.Artists {
			items = append(items, Item{
				ID:       artist.ID,
				Title:    artist.Name,
				Subtitle: pluralize(artist.AlbumCount, "album"),
				Href:     "/api/v1/artists/" + artist.ID.String(),
			})
		}
		sections = append(sections, Section{Name: "artists", Items: items})
	}

	if len(results.Albums) > 0 {
		items := make([]Item, 0, len(results.Albums))
		for _, album := range results.Albums {
			subtitle := album.Artist
			if album.Year > 0 {
				subtitle = joinNonEmpty(subtitle, strconv.Itoa(album.Year))
			}
			items = append(items, Item{
				ID:       album.ID,
				Title:    album.Name,
				Subtitle: subtitle,
				Href:     "/api/v1/albums/" + album.ID.String(),
			})
		}
		sections = append(sections, Section{Name: "albums", Items: items})
	}

	if len(results.Tracks) > 0 {
		items := make([]Item, 0, len(results.Tracks))
		for _, track := range results.Tracks {
			items = append(items, Item{
				ID:       track.ID,
				Title:    track.Name,
				Subtitle: joinNonEmpty(track.Artist, track.Album),
				Href:     "/api/v1/tracks/" + track.ID.String(),
			})
		}
		sections = append(sections, Section{Name: "tracks", Items: items})
	}

	return Response{Query: query, Sections: sections}
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " - ")
}

func pluralize(count int, singular string) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "1 " + singular
	default:
		return strconv.Itoa(count) + " " + singular + "s"
	}
}
