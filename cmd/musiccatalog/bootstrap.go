package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"musiccatalog/internal/store"
)

type seedAlbum struct {
	Name   string
	Year   int
	Tracks []seedTrack
}

type seedTrack struct {
	Name     string
	Duration int
}

type seedArtist struct {
	Name   string
	Grammy int
	Albums []seedAlbum
}

var demoCatalog = []seedArtist{
	{
		Name:   "Massive Attack",
		Grammy: 0,
		Albums: []seedAlbum{{
			Name: "Mezzanine",
			Year: 1998,
			Tracks: []seedTrack{
				{"Angel", 379},
				{"Teardrop", 330},
				{"Inertia Creeps", 357},
			},
		}},
	},
	{
		Name:   "Portishead",
		Grammy: 0,
		Albums: []seedAlbum{{
			Name: "Dummy",
			Year: 1994,
			Tracks: []seedTrack{
				{"Mysterons", 302},
				{"Sour Times", 254},
				{"Glory Box", 306},
			},
		}},
	},
	{
		Name:   "Radiohead",
		Grammy: 3,
		Albums: []seedAlbum{{
			Name: "OK Computer",
			Year: 1997,
			Tracks: []seedTrack{
				{"Airbag", 284},
				{"Paranoid Android", 383},
				{"No Surprises", 229},
			},
		}},
	},
}

// catalogWriter is the slice of the store used for seeding.
type catalogWriter interface {
	ListArtists(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error)
	CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	CreateTrack(ctx context.Context, track store.Track) (store.Track, error)
}

// bootstrapDemoCatalog loads demoCatalog when the artists table is empty.
func bootstrapDemoCatalog(ctx context.Context, st catalogWriter) error {
	existing, err := st.ListArtists(ctx, store.ArtistFilter{Page: store.Page{Limit: 1}})
	if err != nil {
		return fmt.Errorf("check catalogue: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	var tracks int
	for _, a := range demoCatalog {
		artist, err := st.CreateArtist(ctx, store.Artist{Name: a.Name, Grammy: a.Grammy})
		if errors.Is(err, store.ErrDuplicate) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed artist %q: %w", a.Name, err)
		}

		for _, al := range a.Albums {
			album, err := st.CreateAlbum(ctx, store.Album{Name: al.Name, Year: al.Year, ArtistID: artist.ID})
			if err != nil {
				return fmt.Errorf("seed album %q: %w", al.Name, err)
			}
			for _, t := range al.Tracks {
				if _, err := st.CreateTrack(ctx, store.Track{
					Name:     t.Name,
					Duration: t.Duration,
					ArtistID: artist.ID,
					AlbumID:  album.ID,
				}); err != nil {
					return fmt.Errorf("seed track %q: %w", t.Name, err)
				}
				tracks++
			}
		}
	}

	log.Info().Int("artists", len(demoCatalog)).Int("tracks", tracks).Msg("seeded demo catalogue")
	return nil
}
