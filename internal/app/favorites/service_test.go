package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/store"
	"musiccatalog/internal/store/storetest"
)

type catalog struct {
	mem    *storetest.Memory
	artist store.Artist
	album  store.Album
	track  store.Track
}

func newCatalog(t *testing.T) catalog {
	t.Helper()
	ctx := context.Background()
	mem := storetest.New()

	artist, err := mem.CreateArtist(ctx, store.Artist{Name: "Nina", Grammy: 2})
	if err != nil {
		t.Fatalf("CreateArtist: %v", err)
	}
	album, err := mem.CreateAlbum(ctx, store.Album{Name: "Pastel Blues", Year: 1965, ArtistID: artist.ID})
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	track, err := mem.CreateTrack(ctx, store.Track{Name: "Sinnerman", Duration: 620, ArtistID: artist.ID, AlbumID: album.ID})
	if err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}
	return catalog{mem: mem, artist: artist, album: album, track: track}
}

func TestAddDispatchesByCategory(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	svc := New(c.mem)
	user := uuid.New()

	tests := []struct {
		category string
		id       uuid.UUID
		name     string
	}{
		{"artist", c.artist.ID, "Nina"},
		{"album", c.album.ID, "Pastel Blues"},
		{"track", c.track.ID, "Sinnerman"},
	}
	for _, tt := range tests {
		fav, err := svc.Add(ctx, user, NewFavorite{ItemID: tt.id.String(), Category: tt.category})
		if err != nil {
			t.Fatalf("Add %s: %v", tt.category, err)
		}
		if fav.Name != tt.name || string(fav.Category) != tt.category || fav.ItemID != tt.id {
			t.Fatalf("unexpected favorite %+v", fav)
		}
	}

	if _, err := svc.Add(ctx, user, NewFavorite{ItemID: c.artist.ID.String(), Category: "album"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected item not found in wrong category, got %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	svc := New(newCatalog(t).mem)
	user := uuid.New()

	for _, in := range []NewFavorite{
		{},
		{ItemID: uuid.NewString()},
		{ItemID: uuid.NewString(), Category: "playlist"},
		{ItemID: "not-a-uuid", Category: "track"},
	} {
		if _, err := svc.Add(context.Background(), user, in); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
}

func TestAddSharesFavoriteAcrossUsers(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	svc := New(c.mem)
	alice, bob := uuid.New(), uuid.New()
	in := NewFavorite{ItemID: c.track.ID.String(), Category: "track"}

	first, err := svc.Add(ctx, alice, in)
	if err != nil {
		t.Fatalf("Add alice: %v", err)
	}
	second, err := svc.Add(ctx, bob, in)
	if err != nil {
		t.Fatalf("Add bob: %v", err)
	}
	if first.ID != second.ID || c.mem.FavoriteCount() != 1 {
		t.Fatalf("expected one shared favorite, got %s and %s", first.ID, second.ID)
	}

	_, err = svc.Add(ctx, alice, in)
	if !errors.Is(err, apperr.ErrInvalidInput) || err.Error() != msgAlreadyHeld {
		t.Fatalf("expected already present, got %v", err)
	}
}

func TestRemoveKeepsSharedRow(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	svc := New(c.mem)
	user := uuid.New()

	fav, err := svc.Add(ctx, user, NewFavorite{ItemID: c.album.ID.String(), Category: "album"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Remove(ctx, user, fav.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if len(c.mem.HeldFavorites(user)) != 0 {
		t.Fatalf("expected reference to be pulled")
	}
	if c.mem.FavoriteCount() != 1 {
		t.Fatalf("expected shared favorite row to remain")
	}

	if err := svc.Remove(ctx, user, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByCategory(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	svc := New(c.mem)
	user := uuid.New()

	for _, in := range []NewFavorite{
		{ItemID: c.track.ID.String(), Category: "track"},
		{ItemID: c.artist.ID.String(), Category: "artist"},
	} {
		if _, err := svc.Add(ctx, user, in); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := svc.List(ctx, user, "artist", store.Page{Limit: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Nina" {
		t.Fatalf("unexpected favorites %+v", got)
	}

	if _, err := svc.List(ctx, user, "songs", store.Page{}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid category, got %v", err)
	}
}
