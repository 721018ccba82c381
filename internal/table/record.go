package table

import (
	"bytes"
	"encoding/json"
)

// Record is an insertion-ordered mapping of canonical keys to cell
// values. Values are nil, int64, float64 or string.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value under key. A key keeps the position of its first
// insertion; setting it again only replaces the value.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns the value under key formatted as a string, or "" when
// the key is absent or nil.
func (r *Record) String(key string) string {
	v, ok := r.values[key]
	if !ok || v == nil {
		return ""
	}
	return FormatValue(v)
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len reports the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Merge copies every key of other into r, overwriting existing values.
func (r *Record) Merge(other *Record) {
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// MarshalJSON encodes the record as a JSON object with keys in insertion
// order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ConvertRow zips a header row with a data row, normalizing each pair
// into the record. Dropped headers skip their cell. A short row or header
// list truncates the zip, mirroring the source tables where trailing
// cells are optional.
func ConvertRow(headers []string, cells []any) *Record {
	rec := NewRecord()
	n := len(headers)
	if len(cells) < n {
		n = len(cells)
	}
	for i := 0; i < n; i++ {
		key, ok := NormalizeKey(headers[i])
		if !ok {
			continue
		}
		rec.Set(key, NormalizeValue(cells[i]))
	}
	return rec
}

// ConvertStringRow is ConvertRow for rows scraped as plain text cells.
func ConvertStringRow(headers []string, cells []string) *Record {
	anyCells := make([]any, len(cells))
	for i, c := range cells {
		anyCells[i] = c
	}
	return ConvertRow(headers, anyCells)
}
