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

var favoriteColumns = []string{"id", "item_id", "category", "name", "created_at"}

func TestParseCategory(t *testing.T) {
	for _, raw := range []string{"artist", "album", "track"} {
		if _, ok := ParseCategory(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	for _, raw := range []string{"", "Artist", "playlist"} {
		if _, ok := ParseCategory(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestAddUserFavorite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	userID := uuid.New()
	itemID := uuid.New()
	favID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (item_id) DO UPDATE SET item_id = EXCLUDED.item_id`)).
		WithArgs(itemID, "album", "Blue Train").
		WillReturnRows(sqlmock.NewRows(favoriteColumns).
			AddRow(favID.String(), itemID.String(), "album", "Blue Train", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_favorites (user_id, favorite_id)`)).
		WithArgs(userID, favID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fav, err := s.AddUserFavorite(context.Background(), userID, Favorite{
		ItemID:   itemID,
		Category: CategoryAlbum,
		Name:     "Blue Train",
	})
	if err != nil {
		t.Fatalf("AddUserFavorite error: %v", err)
	}
	if fav.ID != favID || fav.Category != CategoryAlbum {
		t.Fatalf("unexpected favorite: %#v", fav)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddUserFavoriteAlreadyHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO favorites`)).
		WillReturnRows(sqlmock.NewRows(favoriteColumns).
			AddRow(uuid.NewString(), uuid.NewString(), "track", "So What", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_favorites`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err = s.AddUserFavorite(context.Background(), uuid.New(), Favorite{ItemID: uuid.New(), Category: CategoryTrack})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveUserFavoriteKeepsSharedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	userID := uuid.New()
	favID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_favorites WHERE user_id = $1 AND favorite_id = $2`)).
		WithArgs(userID, favID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.RemoveUserFavorite(context.Background(), userID, favID); err != nil {
		t.Fatalf("RemoveUserFavorite error: %v", err)
	}

	// Any statement touching the favorites table itself would be unexpected.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListUserFavoritesByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE uf.user_id = $1 AND f.category = $2 ORDER BY uf.seq ASC LIMIT $3 OFFSET $4`)).
		WithArgs(userID, "artist", 5, 0).
		WillReturnRows(sqlmock.NewRows(favoriteColumns).
			AddRow(uuid.NewString(), uuid.NewString(), "artist", "Miles Davis", time.Now()))

	favs, err := s.ListUserFavorites(context.Background(), userID, CategoryArtist, Page{Limit: 5})
	if err != nil {
		t.Fatalf("ListUserFavorites error: %v", err)
	}
	if len(favs) != 1 || favs[0].Name != "Miles Davis" {
		t.Fatalf("unexpected favorites: %#v", favs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
