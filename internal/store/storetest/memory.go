// Package storetest provides an in-memory stand-in for store.Store.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/search"
	"musiccatalog/internal/store"
)

// Memory mirrors the Postgres store's semantics closely enough for service
// and handler tests: unique names and emails, shared favorites, cascades.
type Memory struct {
	mu sync.Mutex

	users     map[uuid.UUID]store.User
	artists   map[uuid.UUID]store.Artist
	albums    map[uuid.UUID]store.Album
	tracks    map[uuid.UUID]store.Track
	favorites map[uuid.UUID]store.Favorite
	refs      map[uuid.UUID][]uuid.UUID
	blacklist map[string]time.Time
	seq       int64
	created   map[uuid.UUID]int64
	calls     map[string]int

	Now func() time.Time
}

// New returns an empty Memory store.
func New() *Memory {
	return &Memory{
		users:     map[uuid.UUID]store.User{},
		artists:   map[uuid.UUID]store.Artist{},
		albums:    map[uuid.UUID]store.Album{},
		tracks:    map[uuid.UUID]store.Track{},
		favorites: map[uuid.UUID]store.Favorite{},
		refs:      map[uuid.UUID][]uuid.UUID{},
		blacklist: map[string]time.Time{},
		created:   map[uuid.UUID]int64{},
		calls:     map[string]int{},
		Now:       time.Now,
	}
}

// lock takes the mutex and counts a call to method. Callers defer the result.
func (m *Memory) lock(method string) func() {
	m.mu.Lock()
	m.calls[method]++
	return m.mu.Unlock
}

// Calls reports how many times method has been invoked.
func (m *Memory) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *Memory) stamp(id uuid.UUID) time.Time {
	m.seq++
	m.created[id] = m.seq
	return m.Now()
}

func (m *Memory) ordered(ids []uuid.UUID) []uuid.UUID {
	sort.Slice(ids, func(i, j int) bool { return m.created[ids[i]] < m.created[ids[j]] })
	return ids
}

func window[T any](items []T, page store.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

// Users

func (m *Memory) RegisterUser(ctx context.Context, email, passwordHash string) (store.User, error) {
	defer m.lock("RegisterUser")()

	role := store.RoleViewer
	if len(m.users) == 0 {
		role = store.RoleAdmin
	}
	return m.insertUser(email, passwordHash, role)
}

func (m *Memory) CreateUser(ctx context.Context, email, passwordHash string, role store.Role) (store.User, error) {
	defer m.lock("CreateUser")()
	return m.insertUser(email, passwordHash, role)
}

func (m *Memory) insertUser(email, passwordHash string, role store.Role) (store.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return store.User{}, store.ErrDuplicate
		}
	}
	id := uuid.New()
	user := store.User{ID: id, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: m.stamp(id)}
	m.users[id] = user
	return user, nil
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (store.User, error) {
	defer m.lock("UserByEmail")()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m *Memory) UserByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	defer m.lock("UserByID")()
	u, ok := m.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *Memory) ListUsers(ctx context.Context, filter store.UserFilter) ([]store.User, error) {
	defer m.lock("ListUsers")()

	allowed := map[store.Role]bool{}
	for _, r := range filter.Roles {
		allowed[r] = true
	}
	var ids []uuid.UUID
	for id, u := range m.users {
		if allowed[u.Role] {
			ids = append(ids, id)
		}
	}
	out := make([]store.User, 0, len(ids))
	for _, id := range m.ordered(ids) {
		out = append(out, m.users[id])
	}
	return window(out, filter.Page), nil
}

func (m *Memory) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	defer m.lock("UpdatePasswordHash")()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *Memory) DeleteUser(ctx context.Context, id uuid.UUID) error {
	defer m.lock("DeleteUser")()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	delete(m.refs, id)
	return nil
}

// Artists

func (m *Memory) CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error) {
	defer m.lock("CreateArtist")()
	for _, a := range m.artists {
		if a.Name == artist.Name {
			return store.Artist{}, store.ErrDuplicate
		}
	}
	artist.ID = uuid.New()
	artist.CreatedAt = m.stamp(artist.ID)
	m.artists[artist.ID] = artist
	return artist, nil
}

func (m *Memory) ArtistByID(ctx context.Context, id uuid.UUID) (store.Artist, error) {
	defer m.lock("ArtistByID")()
	a, ok := m.artists[id]
	if !ok {
		return store.Artist{}, store.ErrNotFound
	}
	return a, nil
}

func (m *Memory) ListArtists(ctx context.Context, filter store.ArtistFilter) ([]store.Artist, error) {
	defer m.lock("ListArtists")()
	var ids []uuid.UUID
	for id, a := range m.artists {
		if filter.Grammy != nil && a.Grammy != *filter.Grammy {
			continue
		}
		if filter.Hidden != nil && a.Hidden != *filter.Hidden {
			continue
		}
		ids = append(ids, id)
	}
	out := make([]store.Artist, 0, len(ids))
	for _, id := range m.ordered(ids) {
		out = append(out, m.artists[id])
	}
	return window(out, filter.Page), nil
}

func (m *Memory) UpdateArtist(ctx context.Context, id uuid.UUID, patch store.ArtistPatch) error {
	defer m.lock("UpdateArtist")()
	a, ok := m.artists[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Name != nil {
		for other, existing := range m.artists {
			if other != id && existing.Name == *patch.Name {
				return store.ErrDuplicate
			}
		}
		a.Name = *patch.Name
	}
	if patch.Grammy != nil {
		a.Grammy = *patch.Grammy
	}
	if patch.Hidden != nil {
		a.Hidden = *patch.Hidden
	}
	m.artists[id] = a
	return nil
}

func (m *Memory) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	defer m.lock("DeleteArtist")()
	if _, ok := m.artists[id]; !ok {
		return store.ErrNotFound
	}
	m.dropFavoriteFor(id)
	delete(m.artists, id)
	return nil
}

// Albums

func (m *Memory) CreateAlbum(ctx context.Context, album store.Album) (store.Album, error) {
	defer m.lock("CreateAlbum")()
	for _, a := range m.albums {
		if a.Name == album.Name {
			return store.Album{}, store.ErrDuplicate
		}
	}
	album.ID = uuid.New()
	album.CreatedAt = m.stamp(album.ID)
	m.albums[album.ID] = album
	return album, nil
}

func (m *Memory) AlbumByID(ctx context.Context, id uuid.UUID) (store.Album, error) {
	defer m.lock("AlbumByID")()
	a, ok := m.albums[id]
	if !ok {
		return store.Album{}, store.ErrNotFound
	}
	return m.joinAlbum(a), nil
}

func (m *Memory) joinAlbum(a store.Album) store.Album {
	a.ArtistName = m.artists[a.ArtistID].Name
	return a
}

func (m *Memory) ListAlbums(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error) {
	defer m.lock("ListAlbums")()
	var ids []uuid.UUID
	for id, a := range m.albums {
		if filter.ArtistID != nil && a.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.Hidden != nil && a.Hidden != *filter.Hidden {
			continue
		}
		ids = append(ids, id)
	}
	out := make([]store.Album, 0, len(ids))
	for _, id := range m.ordered(ids) {
		out = append(out, m.joinAlbum(m.albums[id]))
	}
	return window(out, filter.Page), nil
}

func (m *Memory) UpdateAlbum(ctx context.Context, id uuid.UUID, patch store.AlbumPatch) error {
	defer m.lock("UpdateAlbum")()
	a, ok := m.albums[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Name != nil {
		for other, existing := range m.albums {
			if other != id && existing.Name == *patch.Name {
				return store.ErrDuplicate
			}
		}
		a.Name = *patch.Name
	}
	if patch.Year != nil {
		a.Year = *patch.Year
	}
	if patch.Hidden != nil {
		a.Hidden = *patch.Hidden
	}
	m.albums[id] = a
	return nil
}

func (m *Memory) DeleteAlbum(ctx context.Context, id uuid.UUID) error {
	defer m.lock("DeleteAlbum")()
	if _, ok := m.albums[id]; !ok {
		return store.ErrNotFound
	}
	m.dropFavoriteFor(id)
	delete(m.albums, id)
	return nil
}

// Tracks

func (m *Memory) CreateTrack(ctx context.Context, track store.Track) (store.Track, error) {
	defer m.lock("CreateTrack")()
	track.ID = uuid.New()
	track.CreatedAt = m.stamp(track.ID)
	m.tracks[track.ID] = track
	return track, nil
}

func (m *Memory) TrackByID(ctx context.Context, id uuid.UUID) (store.Track, error) {
	defer m.lock("TrackByID")()
	t, ok := m.tracks[id]
	if !ok {
		return store.Track{}, store.ErrNotFound
	}
	return m.joinTrack(t), nil
}

func (m *Memory) joinTrack(t store.Track) store.Track {
	t.ArtistName = m.artists[t.ArtistID].Name
	t.AlbumName = m.albums[t.AlbumID].Name
	return t
}

func (m *Memory) ListTracks(ctx context.Context, filter store.TrackFilter) ([]store.Track, error) {
	defer m.lock("ListTracks")()
	var ids []uuid.UUID
	for id, t := range m.tracks {
		if filter.ArtistID != nil && t.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.AlbumID != nil && t.AlbumID != *filter.AlbumID {
			continue
		}
		if filter.Hidden != nil && t.Hidden != *filter.Hidden {
			continue
		}
		ids = append(ids, id)
	}
	out := make([]store.Track, 0, len(ids))
	for _, id := range m.ordered(ids) {
		out = append(out, m.joinTrack(m.tracks[id]))
	}
	return window(out, filter.Page), nil
}

func (m *Memory) UpdateTrack(ctx context.Context, id uuid.UUID, patch store.TrackPatch) error {
	defer m.lock("UpdateTrack")()
	t, ok := m.tracks[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Duration != nil {
		t.Duration = *patch.Duration
	}
	if patch.Hidden != nil {
		t.Hidden = *patch.Hidden
	}
	m.tracks[id] = t
	return nil
}

func (m *Memory) DeleteTrack(ctx context.Context, id uuid.UUID) error {
	defer m.lock("DeleteTrack")()
	if _, ok := m.tracks[id]; !ok {
		return store.ErrNotFound
	}
	m.dropFavoriteFor(id)
	delete(m.tracks, id)
	return nil
}

// Favorites

func (m *Memory) FavoriteByID(ctx context.Context, id uuid.UUID) (store.Favorite, error) {
	defer m.lock("FavoriteByID")()
	f, ok := m.favorites[id]
	if !ok {
		return store.Favorite{}, store.ErrNotFound
	}
	return f, nil
}

func (m *Memory) UserHoldsItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	defer m.lock("UserHoldsItem")()
	for _, favID := range m.refs[userID] {
		if m.favorites[favID].ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListUserFavorites(ctx context.Context, userID uuid.UUID, category store.Category, page store.Page) ([]store.Favorite, error) {
	defer m.lock("ListUserFavorites")()
	out := make([]store.Favorite, 0)
	for _, favID := range m.refs[userID] {
		if f := m.favorites[favID]; f.Category == category {
			out = append(out, f)
		}
	}
	return window(out, page), nil
}

func (m *Memory) AddUserFavorite(ctx context.Context, userID uuid.UUID, fav store.Favorite) (store.Favorite, error) {
	defer m.lock("AddUserFavorite")()

	stored, found := store.Favorite{}, false
	for _, f := range m.favorites {
		if f.ItemID == fav.ItemID {
			stored, found = f, true
			break
		}
	}
	if !found {
		fav.ID = uuid.New()
		fav.CreatedAt = m.stamp(fav.ID)
		m.favorites[fav.ID] = fav
		stored = fav
	}

	for _, held := range m.refs[userID] {
		if held == stored.ID {
			return store.Favorite{}, store.ErrDuplicate
		}
	}
	m.refs[userID] = append(m.refs[userID], stored.ID)
	return stored, nil
}

func (m *Memory) RemoveUserFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	defer m.lock("RemoveUserFavorite")()
	m.refs[userID] = without(m.refs[userID], favoriteID)
	return nil
}

func (m *Memory) dropFavoriteFor(itemID uuid.UUID) {
	for id, f := range m.favorites {
		if f.ItemID != itemID {
			continue
		}
		for user, held := range m.refs {
			m.refs[user] = without(held, id)
		}
		delete(m.favorites, id)
	}
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

// FavoriteCount returns the number of shared favorite rows.
func (m *Memory) FavoriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.favorites)
}

// HeldFavorites returns the favorite ids referenced by a user, in order.
func (m *Memory) HeldFavorites(userID uuid.UUID) []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.refs[userID]...)
}

// Tokens

func (m *Memory) BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error {
	defer m.lock("BlacklistToken")()
	if _, ok := m.blacklist[token]; !ok {
		m.blacklist[token] = expiresAt
	}
	return nil
}

func (m *Memory) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	defer m.lock("IsTokenBlacklisted")()
	exp, ok := m.blacklist[token]
	return ok && exp.After(m.Now()), nil
}

func (m *Memory) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	defer m.lock("PurgeExpiredTokens")()
	var n int64
	for token, exp := range m.blacklist {
		if !exp.After(m.Now()) {
			delete(m.blacklist, token)
			n++
		}
	}
	return n, nil
}

// Search

// Search matches visible catalog entries by case-insensitive substring.
// Ordering follows search.PGStore.
func (m *Memory) Search(ctx context.Context, query string, limit int) (search.Results, error) {
	defer m.lock("Search")()

	q := strings.ToLower(query)
	match := func(names ...string) bool {
		for _, n := range names {
			if n != "" && strings.Contains(strings.ToLower(n), q) {
				return true
			}
		}
		return false
	}

	var res search.Results
	for _, a := range m.artists {
		if a.Hidden || !match(a.Name) {
			continue
		}
		count := 0
		for _, al := range m.albums {
			if al.ArtistID == a.ID && !al.Hidden {
				count++
			}
		}
		res.Artists = append(res.Artists, search.ArtistResult{ID: a.ID, Name: a.Name, AlbumCount: count})
	}
	sort.Slice(res.Artists, func(i, j int) bool {
		if res.Artists[i].AlbumCount != res.Artists[j].AlbumCount {
			return res.Artists[i].AlbumCount > res.Artists[j].AlbumCount
		}
		return res.Artists[i].Name < res.Artists[j].Name
	})

	for _, al := range m.albums {
		artist := m.artists[al.ArtistID].Name
		if al.Hidden || !match(al.Name, artist) {
			continue
		}
		res.Albums = append(res.Albums, search.AlbumResult{ID: al.ID, Name: al.Name, Artist: artist, Year: al.Year})
	}
	sort.Slice(res.Albums, func(i, j int) bool {
		if res.Albums[i].Year != res.Albums[j].Year {
			return res.Albums[i].Year > res.Albums[j].Year
		}
		return res.Albums[i].Name < res.Albums[j].Name
	})

	for _, t := range m.tracks {
		artist := m.artists[t.ArtistID].Name
		if t.Hidden || !match(t.Name, artist) {
			continue
		}
		res.Tracks = append(res.Tracks, search.TrackResult{ID: t.ID, Name: t.Name, Artist: artist, Album: m.albums[t.AlbumID].Name})
	}
	sort.Slice(res.Tracks, func(i, j int) bool { return res.Tracks[i].Name < res.Tracks[j].Name })

	res.Artists = window(res.Artists, store.Page{Limit: limit})
	res.Albums = window(res.Albums, store.Page{Limit: limit})
	res.Tracks = window(res.Tracks, store.Page{Limit: limit})
	return res, nil
}
