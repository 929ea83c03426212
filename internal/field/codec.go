package field

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"booklib/internal/apperr"
	"booklib/internal/option"
)

// ErrNoRow is returned by Lookup implementations when no row matches.
var ErrNoRow = errors.New("no matching row")

// ErrLinkField is returned when a many-to-many field is passed to Encode;
// those saves go through the link-replace path instead.
var ErrLinkField = errors.New("field is stored through a link table")

// Lookup resolves a display name to a row id when the option cache misses.
type Lookup interface {
	FindIDByName(ctx context.Context, e option.Entity, name string) (int64, error)
}

// Codec coerces raw UI strings into the value written to the field's column.
type Codec struct {
	cache  *option.Cache
	lookup Lookup
}

func NewCodec(cache *option.Cache, lookup Lookup) *Codec {
	return &Codec{cache: cache, lookup: lookup}
}

// Encode returns the column to write and the coerced value. A nil value means
// SQL NULL. Validation failures abort the save; the caller keeps the prior
// value.
func (c *Codec) Encode(ctx context.Context, f Field, raw string) (string, any, error) {
	spec, ok := specs[f]
	if !ok {
		return "", nil, ErrUnknownField
	}
	raw = strings.TrimSpace(raw)

	switch spec.kind {
	case KindText:
		if raw == "" && !spec.required {
			return spec.column, nil, nil
		}
		return spec.column, raw, nil

	case KindRating:
		if raw == "" {
			return spec.column, nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", nil, &apperr.ValidationError{Field: string(f), Message: "must be a number"}
		}
		if v < 1 || v > 10 {
			return "", nil, &apperr.ValidationError{Field: string(f), Message: "must be between 1 and 10"}
		}
		return spec.column, v, nil

	case KindInt:
		if raw == "" {
			return spec.column, nil, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return "", nil, &apperr.ValidationError{Field: string(f), Message: "must be an integer"}
		}
		if v <= 0 {
			return "", nil, &apperr.ValidationError{Field: string(f), Message: "must be positive"}
		}
		return spec.column, v, nil

	case KindBool:
		if raw == "" {
			return spec.column, false, nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return "", nil, &apperr.ValidationError{Field: string(f), Message: "must be true or false"}
		}
		return spec.column, v, nil

	case KindDate:
		if raw == "" {
			return spec.column, nil, nil
		}
		t, err := parseDate(raw)
		if err != nil {
			return "", nil, &apperr.ValidationError{Field: string(f), Message: "must be a date"}
		}
		return spec.column, t, nil

	case KindRef:
		if raw == "" {
			return spec.column, nil, nil
		}
		id, err := c.resolveRef(ctx, spec.ref, string(f), raw)
		if err != nil {
			return "", nil, err
		}
		return spec.column, id, nil

	case KindLinks:
		return "", nil, ErrLinkField
	}
	return "", nil, ErrUnknownField
}

// resolveRef tries, in order: cached option by display name, numeric id, a
// lookup query by name. An unresolved name cancels the edit.
func (c *Codec) resolveRef(ctx context.Context, e option.Entity, fieldName, raw string) (int64, error) {
	entry, found, err := c.cache.FindByValue(ctx, e, raw)
	if err != nil {
		return 0, err
	}
	if found && entry.ID != nil {
		return *entry.ID, nil
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}

	id, err := c.lookup.FindIDByName(ctx, e, raw)
	if err != nil {
		if errors.Is(err, ErrNoRow) {
			return 0, &apperr.NotFoundError{Entity: fieldName, Name: raw}
		}
		return 0, apperr.Backend("lookup "+fieldName, err)
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}
