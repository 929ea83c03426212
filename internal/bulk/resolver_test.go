package bulk

import (
	"context"
	"errors"
	"testing"

	"booklib/internal/book"
	"booklib/internal/option"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource hands out ids for created names so the refresh after a create
// sees the new row, the way the backend would.
type fakeSource struct {
	entries map[option.Entity][]option.Entry
	nextID  int64
	created []string
	failOn  string
}

func newFakeSource() *fakeSource {
	id := func(v int64) *int64 { return &v }
	return &fakeSource{
		entries: map[option.Entity][]option.Entry{
			option.Authors: {{Value: "Jane Doe", Label: "Jane Doe", ID: id(1)}},
			option.Genres: {
				{Value: "Drama", Label: "Drama", ID: id(2)},
				{Value: "Fiction", Label: "Fiction", ID: id(1)},
			},
			option.Series: {{Value: "Macondo", Label: "Macondo", ID: id(7)}},
		},
		nextID: 100,
	}
}

func (s *fakeSource) LoadOptions(_ context.Context, e option.Entity) ([]option.Entry, error) {
	return s.entries[e], nil
}

func (s *fakeSource) CreateNamed(_ context.Context, e option.Entity, name string) (int64, error) {
	if name == s.failOn {
		return 0, errors.New("insert failed")
	}
	s.nextID++
	id := s.nextID
	s.entries[e] = append(s.entries[e], option.Entry{Value: name, Label: name, ID: &id})
	s.created = append(s.created, name)
	return id, nil
}

func TestResolver_MatchesExistingNames(t *testing.T) {
	src := newFakeSource()
	r := NewResolver(option.NewCache(src))

	resolved, err := r.Resolve(context.Background(), Form{
		AuthorName: "Jane Doe",
		GenreNames: []string{"Fiction", "Drama"},
		SeriesName: "Macondo",
	})
	require.NoError(t, err)

	require.NotNil(t, resolved.Author)
	assert.Equal(t, book.NamedRef{ID: 1, Name: "Jane Doe"}, *resolved.Author)
	assert.Equal(t, []book.NamedRef{{ID: 1, Name: "Fiction"}, {ID: 2, Name: "Drama"}}, resolved.Genres)
	require.NotNil(t, resolved.Series)
	assert.Equal(t, int64(7), resolved.Series.ID)
	assert.Empty(t, src.created, "no rows created when every name matches")
}

func TestResolver_CreatesMissingRows(t *testing.T) {
	src := newFakeSource()
	r := NewResolver(option.NewCache(src))

	resolved, err := r.Resolve(context.Background(), Form{
		AuthorName: "New Author",
		GenreNames: []string{"Fiction", "Cyberpunk"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"New Author", "Cyberpunk"}, src.created)
	assert.Equal(t, int64(101), resolved.Author.ID)
	assert.Equal(t, int64(1), resolved.Genres[0].ID)
	assert.Equal(t, int64(102), resolved.Genres[1].ID)
	assert.Nil(t, resolved.Series)
}

func TestResolver_MatchingIsCaseSensitive(t *testing.T) {
	src := newFakeSource()
	r := NewResolver(option.NewCache(src))

	resolved, err := r.Resolve(context.Background(), Form{GenreNames: []string{"fiction"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"fiction"}, src.created, "lowercase name does not match the cached Fiction")
	assert.Equal(t, "fiction", resolved.Genres[0].Name)
}

func TestResolver_CreateFailurePropagates(t *testing.T) {
	src := newFakeSource()
	src.failOn = "Doomed Genre"
	r := NewResolver(option.NewCache(src))

	_, err := r.Resolve(context.Background(), Form{GenreNames: []string{"Doomed Genre"}})
	assert.Error(t, err)
}

func TestResolver_EmptyNamesSkipped(t *testing.T) {
	src := newFakeSource()
	r := NewResolver(option.NewCache(src))

	resolved, err := r.Resolve(context.Background(), Form{})
	require.NoError(t, err)

	assert.Nil(t, resolved.Author)
	assert.Nil(t, resolved.Series)
	assert.Empty(t, resolved.Genres)
	assert.Empty(t, src.created)
}
