package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// NamedRef is a referenced author, series or genre row.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book is one library entry with its scalar attributes and relations.
type Book struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Rating            *float64   `json:"rating,omitempty"`
	Pages             *int       `json:"pages,omitempty"`
	Year              *int       `json:"year,omitempty"`
	Type              *string    `json:"type,omitempty"`
	Publisher         *string    `json:"publisher,omitempty"`
	Language          *string    `json:"language,omitempty"`
	Era               *string    `json:"era,omitempty"`
	Format            *string    `json:"format,omitempty"`
	Audience          *string    `json:"audience,omitempty"`
	ReadingDifficulty *string    `json:"reading_difficulty,omitempty"`
	Awards            *string    `json:"awards,omitempty"`
	Favorite          bool       `json:"favorite"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	ImageURL          *string    `json:"image_url,omitempty"`
	Summary           *string    `json:"summary,omitempty"`
	Review            *string    `json:"review,omitempty"`
	MainCharacters    *string    `json:"main_characters,omitempty"`
	FavoriteCharacter *string    `json:"favorite_character,omitempty"`
	Order             int        `json:"orden"`
	AuthorID          *int64     `json:"author_id,omitempty"`
	Author            *NamedRef  `json:"author,omitempty"`
	SeriesID          *int64     `json:"series_id,omitempty"`
	Series            *NamedRef  `json:"series,omitempty"`
	Genres            []NamedRef `json:"genres"`
}
