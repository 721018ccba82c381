// Package store persists normalized records as analyst-friendly files
// and archives raw page bodies for replay. One Save call writes one file
// under <root>/<category>/<name>.<format>.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/fortuna/kbostats/internal/table"
)

// Supported output formats.
const (
	FormatParquet = "parquet"
	FormatJSON    = "json"
	FormatCSV     = "csv"
)

// ErrUnsupportedFormat reports an output format the store cannot write.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	return format == FormatParquet || format == FormatJSON || format == FormatCSV
}

// Store writes record files under a single output root.
type Store struct {
	root string
	log  zerolog.Logger
}

// New returns a store rooted at dir.
func New(dir string, log zerolog.Logger) *Store {
	return &Store{root: dir, log: log}
}

// Save persists records to <root>/<category>/<name>.<format>. Columns
// are ordered by first appearance across the records; a column holding
// any non-numeric value is coerced to a uniform string representation so
// mixed-type columns cannot break the columnar encoders. Saving zero
// records writes nothing.
func (s *Store) Save(records []*table.Record, category, name, format string) error {
	if len(records) == 0 {
		s.log.Warn().Str("category", category).Str("name", name).Msg("no data to save")
		return nil
	}
	if !ValidFormat(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	dir := filepath.Join(s.root, filepath.FromSlash(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+"."+format)

	columns := columnOrder(records)
	kinds := columnKinds(records, columns)

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(path, records, columns)
	case FormatJSON:
		err = writeJSON(path, records, columns, kinds)
	case FormatParquet:
		err = writeParquet(path, name, records, columns, kinds)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	s.log.Info().Str("path", path).Int("records", len(records)).Msg("saved file")
	return nil
}

// columnOrder unions the records' keys in first-appearance order.
func columnOrder(records []*table.Record) []string {
	var columns []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}
	return columns
}

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindFloat
)

// columnKinds classifies each column: all-integer, numeric, or string.
// A column with any string value, or with no values at all, is a string
// column.
func columnKinds(records []*table.Record, columns []string) map[string]columnKind {
	kinds := make(map[string]columnKind, len(columns))
	for _, col := range columns {
		kind := kindString
		sawValue := false
	scan:
		for _, rec := range records {
			v, ok := rec.Get(col)
			if !ok || v == nil {
				continue
			}
			switch v.(type) {
			case int64:
				if !sawValue {
					kind = kindInt
				}
			case float64:
				kind = kindFloat
			default:
				kind = kindString
				break scan
			}
			sawValue = true
		}
		kinds[col] = kind
	}
	return kinds
}

// coerce applies the column's kind to one value.
func coerce(v any, kind columnKind) any {
	if v == nil {
		return nil
	}
	switch kind {
	case kindString:
		return table.FormatValue(v)
	case kindFloat:
		if n, ok := v.(int64); ok {
			return float64(n)
		}
	}
	return v
}

func writeCSV(path string, records []*table.Record, columns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec.String(col)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeJSON(path string, records []*table.Record, columns []string, kinds map[string]columnKind) error {
	normalized := make([]*table.Record, len(records))
	for i, rec := range records {
		out := table.NewRecord()
		for _, col := range columns {
			v, _ := rec.Get(col)
			out.Set(col, coerce(v, kinds[col]))
		}
		normalized[i] = out
	}

	data, err := json.MarshalIndent(normalized, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeParquet(path, name string, records []*table.Record, columns []string, kinds map[string]columnKind) error {
	group := parquet.Group{}
	for _, col := range columns {
		switch kinds[col] {
		case kindInt:
			group[col] = parquet.Optional(parquet.Int(64))
		case kindFloat:
			group[col] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		default:
			group[col] = parquet.Optional(parquet.String())
		}
	}
	schema := parquet.NewSchema(name, group)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := parquet.NewGenericWriter[map[string]any](f, schema)
	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			v, _ := rec.Get(col)
			if v == nil {
				continue
			}
			row[col] = coerce(v, kinds[col])
		}
		rows[i] = row
	}
	if _, err := w.Write(rows); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}
