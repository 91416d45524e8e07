package albums

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"musiccatalog/internal/apperr"
	"musiccatalog/internal/store"
	"musiccatalog/internal/store/storetest"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func newArtist(t *testing.T, mem *storetest.Memory, name string) store.Artist {
	t.Helper()
	artist, err := mem.CreateArtist(context.Background(), store.Artist{Name: name, Grammy: 1})
	if err != nil {
		t.Fatalf("CreateArtist: %v", err)
	}
	return artist
}

func TestCreateAlbum(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	svc := New(mem)
	artist := newArtist(t, mem, "Nina")

	album, err := svc.Create(ctx, NewAlbum{ArtistID: artist.ID.String(), Name: "Pastel Blues", Year: intPtr(1965), Hidden: boolPtr(false)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if album.ArtistName != "Nina" || album.ArtistID != artist.ID || album.Year != 1965 {
		t.Fatalf("unexpected album %+v", album)
	}

	_, err = svc.Create(ctx, NewAlbum{ArtistID: artist.ID.String(), Name: "Pastel Blues", Year: intPtr(1966), Hidden: boolPtr(true)})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateAlbumValidation(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	svc := New(mem)

	tests := []struct {
		name string
		in   NewAlbum
		kind error
		msg  string
	}{
		{
			name: "missing year checked before artist",
			in:   NewAlbum{ArtistID: uuid.NewString(), Name: "X", Hidden: boolPtr(false)},
			kind: apperr.ErrInvalidInput,
		},
		{
			name: "zero year",
			in:   NewAlbum{ArtistID: uuid.NewString(), Name: "X", Year: intPtr(0), Hidden: boolPtr(false)},
			kind: apperr.ErrInvalidInput,
		},
		{
			name: "year beyond column range",
			in:   NewAlbum{ArtistID: uuid.NewString(), Name: "X", Year: intPtr(3000000000), Hidden: boolPtr(false)},
			kind: apperr.ErrInvalidInput,
		},
		{
			name: "malformed artist id",
			in:   NewAlbum{ArtistID: "nope", Name: "X", Year: intPtr(2000), Hidden: boolPtr(false)},
			kind: apperr.ErrInvalidInput,
		},
		{
			name: "unknown artist",
			in:   NewAlbum{ArtistID: uuid.NewString(), Name: "X", Year: intPtr(2000), Hidden: boolPtr(false)},
			kind: apperr.ErrNotFound,
			msg:  "Artist not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if tt.msg != "" && err.Error() != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, err.Error())
			}
		})
	}
}

func TestListByArtist(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	svc := New(mem)
	nina := newArtist(t, mem, "Nina")
	miles := newArtist(t, mem, "Miles")

	for _, in := range []NewAlbum{
		{ArtistID: nina.ID.String(), Name: "Pastel Blues", Year: intPtr(1965), Hidden: boolPtr(false)},
		{ArtistID: miles.ID.String(), Name: "Kind of Blue", Year: intPtr(1959), Hidden: boolPtr(false)},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := svc.List(ctx, store.AlbumFilter{ArtistID: &miles.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Kind of Blue" || got[0].ArtistName != "Miles" {
		t.Fatalf("unexpected albums %+v", got)
	}

	unknown := uuid.New()
	_, err = svc.List(ctx, store.AlbumFilter{ArtistID: &unknown})
	if !errors.Is(err, apperr.ErrNotFound) || err.Error() != "Artist not found, not valid artist ID." {
		t.Fatalf("expected artist not found, got %v", err)
	}
}

func TestUpdateAndDeleteAlbum(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	svc := New(mem)
	artist := newArtist(t, mem, "Nina")
	album, err := svc.Create(ctx, NewAlbum{ArtistID: artist.ID.String(), Name: "Pastel Blues", Year: intPtr(1965), Hidden: boolPtr(false)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Update(ctx, album.ID, store.AlbumPatch{Year: intPtr(-1)}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := svc.Update(ctx, album.ID, store.AlbumPatch{Hidden: boolPtr(true)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Get(ctx, album.ID)
	if err != nil || !got.Hidden {
		t.Fatalf("expected hidden album, got %+v (%v)", got, err)
	}

	deleted, err := svc.Delete(ctx, album.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Name != "Pastel Blues" {
		t.Fatalf("unexpected deleted album %+v", deleted)
	}
	if _, err := svc.Get(ctx, album.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
