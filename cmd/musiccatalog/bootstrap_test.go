package main

import (
	"context"
	"testing"

	"musiccatalog/internal/store"
	"musiccatalog/internal/store/storetest"
)

func TestBootstrapDemoCatalogSeedsOnce(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()

	if err := bootstrapDemoCatalog(ctx, mem); err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if err := bootstrapDemoCatalog(ctx, mem); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	artists, err := mem.ListArtists(ctx, store.ArtistFilter{})
	if err != nil {
		t.Fatalf("ListArtists: %v", err)
	}
	if len(artists) != len(demoCatalog) {
		t.Fatalf("expected %d artists, got %d", len(demoCatalog), len(artists))
	}

	tracks, err := mem.ListTracks(ctx, store.TrackFilter{})
	if err != nil {
		t.Fatalf("ListTracks: %v", err)
	}
	if len(tracks) != 9 || tracks[0].AlbumName != "Mezzanine" {
		t.Fatalf("unexpected seeded tracks %+v", tracks)
	}
}
