package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var albumColumns = []string{"id", "name", "year", "hidden", "artist_id", "artist_name", "created_at"}

func TestCreateAlbumSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	artistID := uuid.New()
	albumID := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO albums (name, year, hidden, artist_id)`)).
		WithArgs("Blue Train", 1957, false, artistID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(albumID.String(), created))

	got, err := s.CreateAlbum(context.Background(), Album{Name: "Blue Train", Year: 1957, ArtistID: artistID})
	if err != nil {
		t.Fatalf("CreateAlbum error: %v", err)
	}
	if got.ID != albumID {
		t.Fatalf("expected album ID %s, got %s", albumID, got.ID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, got.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAlbumDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO albums`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.CreateAlbum(context.Background(), Album{Name: "Blue Train", Year: 1957, ArtistID: uuid.New()})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestListAlbumsAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	artistID := uuid.New()
	hidden := false

	mock.ExpectQuery(regexp.QuoteMeta(`AND al.artist_id = $1 AND al.hidden = $2 ORDER BY al.created_at ASC, al.id ASC LIMIT $3 OFFSET $4`)).
		WithArgs(artistID, false, 5, 10).
		WillReturnRows(sqlmock.NewRows(albumColumns).
			AddRow(uuid.NewString(), "Giant Steps", 1960, false, artistID.String(), "John Coltrane", time.Now()).
			AddRow(uuid.NewString(), "Ballads", 1963, false, artistID.String(), "John Coltrane", time.Now()))

	albums, err := s.ListAlbums(context.Background(), AlbumFilter{
		ArtistID: &artistID,
		Hidden:   &hidden,
		Page:     Page{Limit: 5, Offset: 10},
	})
	if err != nil {
		t.Fatalf("ListAlbums error: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}
	if albums[0].ArtistName != "John Coltrane" {
		t.Fatalf("expected artist name to be joined, got %q", albums[0].ArtistName)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAlbumsUnboundedLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(nil, 0).
		WillReturnRows(sqlmock.NewRows(albumColumns))

	albums, err := s.ListAlbums(context.Background(), AlbumFilter{})
	if err != nil {
		t.Fatalf("ListAlbums error: %v", err)
	}
	if albums == nil || len(albums) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", albums)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAlbumByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE al.id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(albumColumns))

	if _, err := s.AlbumByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAlbumBuildsPartialSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	id := uuid.New()
	year := 1959
	hidden := true

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE albums SET year = $1, hidden = $2 WHERE id = $3`)).
		WithArgs(1959, true, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpdateAlbum(context.Background(), id, AlbumPatch{Year: &year, Hidden: &hidden}); err != nil {
		t.Fatalf("UpdateAlbum error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateAlbumMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	name := "Kind of Blue"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE albums SET name = $1 WHERE id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.UpdateAlbum(context.Background(), uuid.New(), AlbumPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
