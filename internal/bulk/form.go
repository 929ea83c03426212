// Package bulk turns a pasted multi-line text block into a partially filled
// book form. Parsing is positional and permissive: a malformed value drops to
// nil for that field only, never aborting the block.
package bulk

import (
	"time"

	"booklib/internal/book"
)

// Form is the parsed, not-yet-resolved block. Relational fields carry the raw
// names from the text; Resolver turns them into ids.
type Form struct {
	Title             string     `json:"title"`
	AuthorName        string     `json:"author_name"`
	GenreNames        []string   `json:"genre_names"`
	Rating            *float64   `json:"rating,omitempty"`
	Type              *string    `json:"type,omitempty"`
	Pages             *int       `json:"pages,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	Year              *int       `json:"year,omitempty"`
	Publisher         *string    `json:"publisher,omitempty"`
	Language          *string    `json:"language,omitempty"`
	Era               *string    `json:"era,omitempty"`
	Format            *string    `json:"format,omitempty"`
	Audience          *string    `json:"audience,omitempty"`
	ReadingDifficulty *string    `json:"reading_difficulty,omitempty"`
	Awards            *string    `json:"awards,omitempty"`
	ImageURL          *string    `json:"image_url,omitempty"`
	MainCharacters    *string    `json:"main_characters,omitempty"`
	FavoriteCharacter *string    `json:"favorite_character,omitempty"`
	Favorite          bool       `json:"favorite"`
	Summary           *string    `json:"summary,omitempty"`
	Review            *string    `json:"review,omitempty"`
	SeriesName        string     `json:"series_name"`
	Quotes            []QuoteLine `json:"quotes"`
}

// QuoteLine is one trailing "text|page|category" line.
type QuoteLine struct {
	Text     string  `json:"text"`
	Page     *int    `json:"page,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Resolved is the form with author, genre and series names turned into
// backing rows.
type Resolved struct {
	Form
	Author *book.NamedRef  `json:"author,omitempty"`
	Series *book.NamedRef  `json:"series,omitempty"`
	Genres []book.NamedRef `json:"genres"`
}
