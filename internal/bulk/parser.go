package bulk

import (
	"strconv"
	"strings"
	"time"
)

// fieldCount is the number of positional lines before the trailing quote
// lines start.
const fieldCount = 23

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Parse splits raw into the fixed positional fields plus trailing quote
// lines. Missing lines read as empty, malformed numeric or date values drop
// to nil for that field only.
func Parse(raw string) Form {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	get := func(i int) string {
		if i < len(lines) {
			return strings.TrimSpace(lines[i])
		}
		return ""
	}

	f := Form{
		Title:             get(0),
		AuthorName:        get(1),
		GenreNames:        splitCSV(get(2)),
		Rating:            parseFloat(get(3)),
		Type:              optText(get(4)),
		Pages:             parseInt(get(5)),
		StartDate:         parseDate(get(6)),
		EndDate:           parseDate(get(7)),
		Year:              parseInt(get(8)),
		Publisher:         optText(get(9)),
		Language:          optText(get(10)),
		Era:               optText(get(11)),
		Format:            optText(get(12)),
		Audience:          optText(get(13)),
		ReadingDifficulty: optText(get(14)),
		Awards:            optText(get(15)),
		ImageURL:          optText(get(16)),
		MainCharacters:    optText(joinCSV(get(17))),
		FavoriteCharacter: optText(get(18)),
		Favorite:          parseBool(get(19)),
		Summary:           optText(get(20)),
		Review:            optText(get(21)),
		SeriesName:        get(22),
	}

	for i := fieldCount; i < len(lines); i++ {
		if q, ok := parseQuoteLine(lines[i]); ok {
			f.Quotes = append(f.Quotes, q)
		}
	}
	return f
}

// parseQuoteLine reads "text|page|category". Page and category are optional,
// a line with no text is skipped.
func parseQuoteLine(line string) (QuoteLine, bool) {
	parts := strings.Split(line, "|")
	text := strings.TrimSpace(parts[0])
	if text == "" {
		return QuoteLine{}, false
	}
	q := QuoteLine{Text: text}
	if len(parts) > 1 {
		q.Page = parseInt(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		q.Category = optText(strings.TrimSpace(parts[2]))
	}
	return q, true
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// joinCSV normalizes a comma separated list to single spacing.
func joinCSV(s string) string {
	return strings.Join(splitCSV(s), ", ")
}

func optText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func parseDate(s string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
