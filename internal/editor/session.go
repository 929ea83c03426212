// Package editor drives inline cell edits: one explicit edit session at a
// time, moving viewing -> editing -> saving -> viewing. A failed save
// restores the prior value; a cancel discards the draft without writing.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"booklib/internal/apperr"
	"booklib/internal/book"
	"booklib/internal/field"
	"booklib/internal/option"
)

// State of the active edit session.
type State int

const (
	Viewing State = iota
	Editing
	Saving
)

var (
	// ErrEditInProgress is returned by Begin while another cell holds the
	// session. Exclusivity is enforced by construction: the manager owns a
	// single session slot.
	ErrEditInProgress = errors.New("another edit is in progress")
	ErrNoSession      = errors.New("no active edit session")
)

// Session is the transient per-cell edit state. It is never persisted and
// dies on save or cancel.
type Session struct {
	BookID     int64
	Field      field.Field
	state      State
	draft      string
	genreDraft []int64
}

// Store is the write side the editor saves through.
type Store interface {
	UpdateColumn(ctx context.Context, id int64, column string, value any) error
	ReplaceGenres(ctx context.Context, bookID int64, genreIDs []int64) error
}

// Manager owns the single active session and the save path.
type Manager struct {
	mu     sync.Mutex
	codec  *field.Codec
	cache  *option.Cache
	store  Store
	snap   *book.Snapshot
	active *Session
}

func NewManager(codec *field.Codec, cache *option.Cache, store Store, snap *book.Snapshot) *Manager {
	return &Manager{codec: codec, cache: cache, store: store, snap: snap}
}

// Begin opens an edit session for one cell. The target book must exist in
// the snapshot.
func (m *Manager) Begin(bookID int64, f field.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return ErrEditInProgress
	}
	if _, ok := m.snap.Get(bookID); !ok {
		return book.ErrNotFound
	}
	m.active = &Session{BookID: bookID, Field: f, state: Editing}
	return nil
}

// SetDraft replaces the session's draft value.
func (m *Manager) SetDraft(raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.state != Editing {
		return ErrNoSession
	}
	m.active.draft = raw
	return nil
}

// SetGenreDraft replaces the draft genre id set for the genre field.
func (m *Manager) SetGenreDraft(genreIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.state != Editing {
		return ErrNoSession
	}
	if m.active.Field != field.Genre {
		return errors.New("genre draft on a non-genre field")
	}
	m.active.genreDraft = genreIDs
	return nil
}

// Cancel discards the draft and returns to viewing without writing.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = nil
}

// ActiveState reports the current session state, if any.
func (m *Manager) ActiveState() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return Viewing, false
	}
	return m.active.state, true
}

// Save coerces the draft, issues a single write, and patches the in-memory
// record on success. On any failure the snapshot keeps the prior value and
// the session still resolves to viewing. Either way the session is gone when
// Save returns.
func (m *Manager) Save(ctx context.Context) (book.Book, error) {
	m.mu.Lock()
	if m.active == nil || m.active.state != Editing {
		m.mu.Unlock()
		return book.Book{}, ErrNoSession
	}
	sess := m.active
	sess.state = Saving
	m.mu.Unlock()

	updated, err := m.save(ctx, sess)

	m.mu.Lock()
	m.active = nil
	m.mu.Unlock()

	if err != nil {
		return book.Book{}, err
	}
	m.snap.Patch(updated)
	return updated, nil
}

func (m *Manager) save(ctx context.Context, sess *Session) (book.Book, error) {
	current, ok := m.snap.Get(sess.BookID)
	if !ok {
		return book.Book{}, book.ErrNotFound
	}

	if sess.Field == field.Genre {
		if err := m.store.ReplaceGenres(ctx, sess.BookID, sess.genreDraft); err != nil {
			return book.Book{}, apperr.Backend("replace genres", err)
		}
		genres, err := m.genreRefs(ctx, sess.genreDraft)
		if err != nil {
			return book.Book{}, err
		}
		current.Genres = genres
		return current, nil
	}

	column, value, err := m.codec.Encode(ctx, sess.Field, sess.draft)
	if err != nil {
		return book.Book{}, err
	}
	if err := m.store.UpdateColumn(ctx, sess.BookID, column, value); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return book.Book{}, err
		}
		return book.Book{}, apperr.Backend("update "+column, err)
	}
	if err := m.applyField(ctx, &current, sess.Field, value); err != nil {
		return book.Book{}, err
	}
	return current, nil
}

// applyField mirrors the saved value into the snapshot record.
func (m *Manager) applyField(ctx context.Context, b *book.Book, f field.Field, value any) error {
	switch f {
	case field.Title:
		b.Title, _ = value.(string)
	case field.Rating:
		b.Rating = asFloatPtr(value)
	case field.Pages:
		b.Pages = asIntPtr(value)
	case field.Year:
		b.Year = asIntPtr(value)
	case field.BookType:
		b.Type = asStringPtr(value)
	case field.Publisher:
		b.Publisher = asStringPtr(value)
	case field.Language:
		b.Language = asStringPtr(value)
	case field.Era:
		b.Era = asStringPtr(value)
	case field.Format:
		b.Format = asStringPtr(value)
	case field.Audience:
		b.Audience = asStringPtr(value)
	case field.ReadingDensity:
		b.ReadingDifficulty = asStringPtr(value)
	case field.Favorite:
		b.Favorite, _ = value.(bool)
	case field.DateStarted:
		b.StartDate = asTimePtr(value)
	case field.DateRead:
		b.EndDate = asTimePtr(value)
	case field.Awards:
		b.Awards = asStringPtr(value)
	case field.ImageURL:
		b.ImageURL = asStringPtr(value)
	case field.Summary:
		b.Summary = asStringPtr(value)
	case field.Review:
		b.Review = asStringPtr(value)
	case field.MainCharacters:
		b.MainCharacters = asStringPtr(value)
	case field.FavoriteCharacter:
		b.FavoriteCharacter = asStringPtr(value)
	case field.Author:
		id := asInt64Ptr(value)
		b.AuthorID = id
		ref, err := m.refFor(ctx, option.Authors, id)
		if err != nil {
			return err
		}
		b.Author = ref
	case field.Universe:
		id := asInt64Ptr(value)
		b.SeriesID = id
		ref, err := m.refFor(ctx, option.Series, id)
		if err != nil {
			return err
		}
		b.Series = ref
	}
	return nil
}

func (m *Manager) refFor(ctx context.Context, e option.Entity, id *int64) (*book.NamedRef, error) {
	if id == nil {
		return nil, nil
	}
	entries, err := m.cache.Get(ctx, e)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID != nil && *entry.ID == *id {
			return &book.NamedRef{ID: *id, Name: entry.Value}, nil
		}
	}
	// Resolved through the by-name lookup rather than the cache; the name is
	// whatever the backend holds, so carry just the id.
	return &book.NamedRef{ID: *id}, nil
}

func (m *Manager) genreRefs(ctx context.Context, ids []int64) ([]book.NamedRef, error) {
	entries, err := m.cache.Get(ctx, option.Genres)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]string, len(entries))
	for _, entry := range entries {
		if entry.ID != nil {
			byID[*entry.ID] = entry.Value
		}
	}
	refs := make([]book.NamedRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, book.NamedRef{ID: id, Name: byID[id]})
	}
	return refs, nil
}

func asStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func asFloatPtr(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func asIntPtr(v any) *int {
	if i, ok := v.(int); ok {
		return &i
	}
	return nil
}

func asInt64Ptr(v any) *int64 {
	if i, ok := v.(int64); ok {
		return &i
	}
	return nil
}

func asTimePtr(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}
