// Package field maps logical field identifiers to backend columns and coerces
// raw UI input to the column's value type.
package field

import (
	"errors"

	"booklib/internal/option"
)

// Field is a typed field identifier. The set is closed: renaming a column is
// a change here, checked at compile time by every switch over Kind.
type Field string

const (
	Title             Field = "title"
	Rating            Field = "rating"
	Pages             Field = "pages"
	Year              Field = "year"
	BookType          Field = "type"
	Publisher         Field = "publisher"
	Language          Field = "language"
	Era               Field = "era"
	Format            Field = "format"
	Audience          Field = "audience"
	ReadingDensity    Field = "readingDensity"
	Favorite          Field = "favorite"
	DateStarted       Field = "dateStarted"
	DateRead          Field = "dateRead"
	Author            Field = "author"
	Universe          Field = "universe"
	Genre             Field = "genre"
	Awards            Field = "awards"
	ImageURL          Field = "image_url"
	Summary           Field = "summary"
	Review            Field = "review"
	MainCharacters    Field = "main_characters"
	FavoriteCharacter Field = "favorite_character"
)

// Kind determines how raw input is coerced.
type Kind int

const (
	KindText Kind = iota
	KindRating
	KindInt
	KindBool
	KindDate
	KindRef
	KindLinks
)

type fieldSpec struct {
	column   string
	kind     Kind
	ref      option.Entity // set for KindRef
	required bool          // NOT NULL column, empty input must not clear it
}

var specs = map[Field]fieldSpec{
	Title:             {column: "title", kind: KindText, required: true},
	Rating:            {column: "rating", kind: KindRating},
	Pages:             {column: "pages", kind: KindInt},
	Year:              {column: "year", kind: KindInt},
	BookType:          {column: "type", kind: KindText},
	Publisher:         {column: "publisher", kind: KindText},
	Language:          {column: "language", kind: KindText},
	Era:               {column: "era", kind: KindText},
	Format:            {column: "format", kind: KindText},
	Audience:          {column: "audience", kind: KindText},
	ReadingDensity:    {column: "reading_difficulty", kind: KindText},
	Favorite:          {column: "favorite", kind: KindBool},
	DateStarted:       {column: "start_date", kind: KindDate},
	DateRead:          {column: "end_date", kind: KindDate},
	Author:            {column: "author_id", kind: KindRef, ref: option.Authors},
	Universe:          {column: "series_id", kind: KindRef, ref: option.Series},
	Genre:             {column: "", kind: KindLinks},
	Awards:            {column: "awards", kind: KindText},
	ImageURL:          {column: "image_url", kind: KindText},
	Summary:           {column: "summary", kind: KindText},
	Review:            {column: "review", kind: KindText},
	MainCharacters:    {column: "main_characters", kind: KindText},
	FavoriteCharacter: {column: "favorite_character", kind: KindText},
}

var ErrUnknownField = errors.New("unknown field")

// Parse validates a field identifier from the URL.
func Parse(s string) (Field, error) {
	f := Field(s)
	if _, ok := specs[f]; !ok {
		return "", ErrUnknownField
	}
	return f, nil
}

// Column returns the backend column the field writes to. The genre field has
// no column of its own: it is stored through the book_genre join table.
func (f Field) Column() string { return specs[f].column }

// Kind returns the coercion kind for the field.
func (f Field) Kind() Kind { return specs[f].kind }

// RefEntity returns the option entity a KindRef field resolves against.
func (f Field) RefEntity() option.Entity { return specs[f].ref }
