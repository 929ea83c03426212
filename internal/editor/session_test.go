package editor

import (
	"context"
	"errors"
	"testing"

	"booklib/internal/apperr"
	"booklib/internal/book"
	"booklib/internal/field"
	"booklib/internal/option"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpdateColumn(ctx context.Context, id int64, column string, value any) error {
	args := m.Called(ctx, id, column, value)
	return args.Error(0)
}

func (m *mockStore) ReplaceGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	args := m.Called(ctx, bookID, genreIDs)
	return args.Error(0)
}

type stubSource struct {
	options map[option.Entity][]option.Entry
}

func (s *stubSource) LoadOptions(_ context.Context, e option.Entity) ([]option.Entry, error) {
	return s.options[e], nil
}

func (s *stubSource) CreateNamed(_ context.Context, _ option.Entity, _ string) (int64, error) {
	panic("not used")
}

func id(v int64) *int64       { return &v }
func rating(v float64) *float64 { return &v }

func newFixture(t *testing.T) (*Manager, *mockStore, *book.Snapshot) {
	t.Helper()

	src := &stubSource{options: map[option.Entity][]option.Entry{
		option.Authors: {
			{Value: "Gabriel García Márquez", Label: "Gabriel García Márquez", ID: id(1)},
			{Value: "Jane Doe", Label: "Jane Doe", ID: id(2)},
		},
		option.Genres: {
			{Value: "Drama", Label: "Drama", ID: id(2)},
			{Value: "Fiction", Label: "Fiction", ID: id(1)},
			{Value: "Realismo Mágico", Label: "Realismo Mágico", ID: id(3)},
		},
		option.Series: {
			{Value: "Macondo", Label: "Macondo", ID: id(5)},
		},
	}}
	cache := option.NewCache(src)
	store := new(mockStore)
	snap := book.NewSnapshot()
	snap.Add(book.Book{
		ID:       10,
		Title:    "Cien años de soledad",
		Rating:   rating(9),
		AuthorID: id(1),
		Author:   &book.NamedRef{ID: 1, Name: "Gabriel García Márquez"},
		Genres:   []book.NamedRef{{ID: 2, Name: "Drama"}},
	})

	codec := field.NewCodec(cache, nil)
	return NewManager(codec, cache, store, snap), store, snap
}

func TestManager_SaveRating(t *testing.T) {
	ctx := context.Background()
	m, store, snap := newFixture(t)

	store.On("UpdateColumn", ctx, int64(10), "rating", 7.0).Return(nil)

	require.NoError(t, m.Begin(10, field.Rating))
	require.NoError(t, m.SetDraft("7"))

	updated, err := m.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, *updated.Rating)

	got, _ := snap.Get(10)
	assert.Equal(t, 7.0, *got.Rating, "snapshot is patched, not re-fetched")

	_, active := m.ActiveState()
	assert.False(t, active, "session resolves to viewing")
	store.AssertExpectations(t)
}

func TestManager_RatingOutOfRangeKeepsPriorValue(t *testing.T) {
	ctx := context.Background()

	for _, raw := range []string{"0", "11"} {
		m, store, snap := newFixture(t)

		require.NoError(t, m.Begin(10, field.Rating))
		require.NoError(t, m.SetDraft(raw))

		_, err := m.Save(ctx)
		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr, "rating %s must fail validation", raw)

		got, _ := snap.Get(10)
		assert.Equal(t, 9.0, *got.Rating, "displayed rating unchanged after failed save")
		store.AssertNotCalled(t, "UpdateColumn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		_, active := m.ActiveState()
		assert.False(t, active)
	}
}

func TestManager_CancelDiscardsDraft(t *testing.T) {
	m, store, snap := newFixture(t)

	require.NoError(t, m.Begin(10, field.Title))
	require.NoError(t, m.SetDraft("A different title"))
	m.Cancel()

	got, _ := snap.Get(10)
	assert.Equal(t, "Cien años de soledad", got.Title)
	store.AssertNotCalled(t, "UpdateColumn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// The slot is free again after cancel.
	assert.NoError(t, m.Begin(10, field.Title))
}

func TestManager_EditExclusivity(t *testing.T) {
	m, _, _ := newFixture(t)

	require.NoError(t, m.Begin(10, field.Title))
	assert.ErrorIs(t, m.Begin(10, field.Rating), ErrEditInProgress)
}

func TestManager_BeginUnknownBook(t *testing.T) {
	m, _, _ := newFixture(t)
	assert.ErrorIs(t, m.Begin(999, field.Title), book.ErrNotFound)
}

func TestManager_GenreReplace(t *testing.T) {
	ctx := context.Background()
	m, store, snap := newFixture(t)

	store.On("ReplaceGenres", ctx, int64(10), []int64{1, 3}).Return(nil)

	require.NoError(t, m.Begin(10, field.Genre))
	require.NoError(t, m.SetGenreDraft([]int64{1, 3}))

	updated, err := m.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, []book.NamedRef{
		{ID: 1, Name: "Fiction"},
		{ID: 3, Name: "Realismo Mágico"},
	}, updated.Genres)

	got, _ := snap.Get(10)
	assert.Equal(t, updated.Genres, got.Genres)
	store.AssertExpectations(t)
}

func TestManager_AuthorByName(t *testing.T) {
	ctx := context.Background()
	m, store, snap := newFixture(t)

	store.On("UpdateColumn", ctx, int64(10), "author_id", int64(2)).Return(nil)

	require.NoError(t, m.Begin(10, field.Author))
	require.NoError(t, m.SetDraft("Jane Doe"))

	updated, err := m.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *updated.AuthorID)
	assert.Equal(t, "Jane Doe", updated.Author.Name)

	got, _ := snap.Get(10)
	assert.Equal(t, "Jane Doe", got.Author.Name)
}

func TestManager_BackendFailureRestoresViewing(t *testing.T) {
	ctx := context.Background()
	m, store, snap := newFixture(t)

	store.On("UpdateColumn", ctx, int64(10), "title", "New Title").
		Return(errors.New("connection reset"))

	require.NoError(t, m.Begin(10, field.Title))
	require.NoError(t, m.SetDraft("New Title"))

	_, err := m.Save(ctx)
	var berr *apperr.BackendError
	assert.ErrorAs(t, err, &berr)

	got, _ := snap.Get(10)
	assert.Equal(t, "Cien años de soledad", got.Title, "prior value restored")

	_, active := m.ActiveState()
	assert.False(t, active)
}

func TestManager_SaveWithoutSession(t *testing.T) {
	m, _, _ := newFixture(t)
	_, err := m.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
