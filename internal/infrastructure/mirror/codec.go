package mirror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the interchange format for dates: ISO-8601, UTC, milliseconds
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Codec converts a collection to and from its remote document
type Codec[T any] interface {
	Encode(records []T) ([]byte, error)
	Decode(doc []byte) ([]T, error)
}

// jsonCodec maps records to wire documents of type D and back
type jsonCodec[T any, D any] struct {
	toDoc   func(T) D
	fromDoc func(D) (T, bool)
}

// NewJSONCodec builds a codec for a JSON array of D. fromDoc reports false
// for entries that must be dropped, such as entries with unreadable dates.
func NewJSONCodec[T any, D any](toDoc func(T) D, fromDoc func(D) (T, bool)) Codec[T] {
	return &jsonCodec[T, D]{toDoc: toDoc, fromDoc: fromDoc}
}

func (c *jsonCodec[T, D]) Encode(records []T) ([]byte, error) {
	docs := make([]D, 0, len(records))
	for _, rec := range records {
		docs = append(docs, c.toDoc(rec))
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return data, nil
}

// Decode never fails on content: anything that is not an array decodes to
// an empty collection and bad entries are skipped.
func (c *jsonCodec[T, D]) Decode(doc []byte) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return []T{}, nil
	}

	out := make([]T, 0, len(raw))
	for _, entry := range raw {
		if len(entry) == 0 || bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			continue
		}
		var d D
		if err := json.Unmarshal(entry, &d); err != nil {
			continue
		}
		if rec, ok := c.fromDoc(d); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FormatTime renders t in the interchange format
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads an interchange date. Any RFC 3339 value is accepted.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

func parseOptionalTime(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, ok := ParseTime(*s)
	if !ok {
		return nil, false
	}
	return &t, true
}
