package table

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedTable reports a composite table whose fragments cannot be
// zipped into rows.
var ErrMalformedTable = errors.New("malformed table fragment")

// Fragment is one sub-table of a composite box-score response. The source
// embeds fragments as JSON strings of the form
// {"rows":[{"row":[{"Text":"..."},...]},...]} inside the outer document.
type Fragment struct {
	Rows []fragmentRow `json:"rows"`
}

type fragmentRow struct {
	Cells []fragmentCell `json:"row"`
}

type fragmentCell struct {
	Text string `json:"Text"`
}

// ParseFragment decodes an embedded table fragment. A blob without the
// expected rows structure is malformed, which callers treat as "no data
// for this unit".
func ParseFragment(raw []byte) (Fragment, error) {
	var f Fragment
	if err := json.Unmarshal(raw, &f); err != nil {
		return Fragment{}, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return f, nil
}

// Fuse merges parallel fragments describing the same logical rows by
// positional zip: row i of the result is the concatenation of row i of
// every fragment, in fragment order. The source provides no join key
// across fragments, so the row counts must agree exactly. Zero fragments
// or zero rows produce an empty result.
func Fuse(fragments []Fragment) ([][]string, error) {
	if len(fragments) == 0 {
		return nil, nil
	}
	count := len(fragments[0].Rows)
	for i, f := range fragments[1:] {
		if len(f.Rows) != count {
			return nil, fmt.Errorf("%w: fragment %d has %d rows, expected %d",
				ErrMalformedTable, i+1, len(f.Rows), count)
		}
	}

	fused := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		var row []string
		for _, f := range fragments {
			for _, cell := range f.Rows[i].Cells {
				row = append(row, cell.Text)
			}
		}
		fused = append(fused, row)
	}
	return fused, nil
}
