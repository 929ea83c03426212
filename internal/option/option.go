package option

import "errors"

// Entry is one selectable choice for a relational or enumerated field. ID is
// set only for entries backed by a name table row.
type Entry struct {
	Value string `json:"value"`
	Label string `json:"label"`
	ID    *int64 `json:"id,omitempty"`
}

// Entity identifies one selector list.
type Entity string

const (
	Authors         Entity = "authors"
	Genres          Entity = "genres"
	Series          Entity = "series"
	Types           Entity = "types"
	Publishers      Entity = "publishers"
	Languages       Entity = "languages"
	Eras            Entity = "eras"
	Formats         Entity = "formats"
	Audiences       Entity = "audiences"
	Years           Entity = "years"
	QuoteTypes      Entity = "quote-types"
	QuoteCategories Entity = "quote-categories"
)

var entities = map[Entity]bool{
	Authors: true, Genres: true, Series: true, Types: true,
	Publishers: true, Languages: true, Eras: true, Formats: true,
	Audiences: true, Years: true, QuoteTypes: true, QuoteCategories: true,
}

// nameTables are the entities whose options come from their own table and
// that therefore support creating a new backing row.
var nameTables = map[Entity]bool{Authors: true, Genres: true, Series: true}

var (
	ErrUnknownEntity = errors.New("unknown option entity")
	ErrNotCreatable  = errors.New("entity has no backing name table")
)

// ParseEntity validates an entity name from the URL.
func ParseEntity(s string) (Entity, error) {
	e := Entity(s)
	if !entities[e] {
		return "", ErrUnknownEntity
	}
	return e, nil
}

// Creatable reports whether new rows can be created for the entity.
func (e Entity) Creatable() bool { return nameTables[e] }
