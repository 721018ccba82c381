package kbo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fortuna/kbostats/internal/table"
)

// ErrMalformedResponse reports a 2xx response whose body lacks the
// structure a scraper expects. Treated as "no data", never as a crash.
var ErrMalformedResponse = errors.New("malformed response")

// statusOK is the success code the JSON endpoints put in their "code"
// field; anything else means no data for the queried unit.
const statusOK = 100

// Side identifies one half of the home/away pair in the box-score
// arrays. The source encodes side positionally: index 0 is always the
// away club, index 1 the home club. Keep this convention behind the type
// instead of re-deriving it at call sites.
type Side int

const (
	Away Side = 0
	Home Side = 1
)

// Sides lists both sides in source array order.
var Sides = [2]Side{Away, Home}

// Label returns the H/A marker emitted on records.
func (s Side) Label() string {
	if s == Home {
		return "H"
	}
	return "A"
}

// OrderedField is one key/value pair of a JSON object in wire order.
// The site derives table headers from object key order, so decoding
// through Go maps would scramble the emitted columns.
type OrderedField struct {
	Key   string
	Value any
}

// GameEntry is one game object of the schedule response with its fields
// in wire order.
type GameEntry struct {
	Fields []OrderedField
}

// Headers returns the entry's keys, trimmed, in wire order.
func (g GameEntry) Headers() []string {
	headers := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		headers[i] = strings.TrimSpace(f.Key)
	}
	return headers
}

// Cells returns the entry's values in wire order.
func (g GameEntry) Cells() []any {
	cells := make([]any, len(g.Fields))
	for i, f := range g.Fields {
		cells[i] = f.Value
	}
	return cells
}

// GameList is the decoded schedule endpoint response for one date.
type GameList struct {
	Code  int
	Games []GameEntry
}

// OK reports whether the endpoint accepted the query.
func (l *GameList) OK() bool {
	return l.Code == statusOK
}

// DecodeGameList decodes a GetKboGameList response body.
func DecodeGameList(body []byte) (*GameList, error) {
	var env struct {
		Code json.RawMessage   `json:"code"`
		Game []json.RawMessage `json:"game"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	list := &GameList{Code: decodeCode(env.Code)}
	for _, raw := range env.Game {
		fields, err := decodeOrderedObject(raw)
		if err != nil {
			return nil, err
		}
		list.Games = append(list.Games, GameEntry{Fields: fields})
	}
	return list, nil
}

// Scoreboard is the decoded scoreboard-scroll response for one game: the
// line score. Meta holds the leading scalar fields shared by both club
// rows; Tables holds the three embedded fragments (result letters,
// per-inning runs, R/H/E/B totals) whose fused rows are away then home.
type Scoreboard struct {
	Code      int
	MaxInning int
	Meta      []OrderedField
	Tables    []table.Fragment
}

// OK reports whether the endpoint accepted the query.
func (s *Scoreboard) OK() bool {
	return s.Code == statusOK
}

// DecodeScoreboard decodes a GetScoreBoardScroll response body. Field
// order matters: the shared meta columns are every scalar field that
// precedes maxInning on the wire, excluding the embedded table blobs and
// the status code.
func DecodeScoreboard(body []byte) (*Scoreboard, error) {
	fields, err := decodeOrderedObject(body)
	if err != nil {
		return nil, err
	}

	sb := &Scoreboard{}
	tables := make(map[string]table.Fragment)
	metaDone := false
	for _, f := range fields {
		switch {
		case f.Key == "code":
			sb.Code = toInt(f.Value)
		case f.Key == "maxInning":
			sb.MaxInning = toInt(f.Value)
			metaDone = true
		case strings.HasPrefix(f.Key, "table"):
			blob, ok := f.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not an embedded table string", ErrMalformedResponse, f.Key)
			}
			frag, err := table.ParseFragment([]byte(blob))
			if err != nil {
				return nil, err
			}
			tables[f.Key] = frag
		case !metaDone:
			sb.Meta = append(sb.Meta, f)
		}
	}

	for i := 1; ; i++ {
		frag, ok := tables["table"+strconv.Itoa(i)]
		if !ok {
			break
		}
		sb.Tables = append(sb.Tables, frag)
	}
	if len(sb.Tables) == 0 {
		return nil, fmt.Errorf("%w: scoreboard has no line score tables", ErrMalformedResponse)
	}
	return sb, nil
}

// BoxScore is the decoded box-score-scroll response for one game. The
// hitter and pitcher arrays are positional home/away pairs; use Side to
// index them.
type BoxScore struct {
	Code          int
	RealMaxInning int
	Hitters       [2][3]table.Fragment
	Pitchers      [2]table.Fragment
}

// OK reports whether the endpoint accepted the query.
func (b *BoxScore) OK() bool {
	return b.Code == statusOK
}

// DecodeBoxScore decodes a GetBoxScoreScroll response body, resolving
// every embedded fragment string up front so the fusion code only sees
// typed structures.
func DecodeBoxScore(body []byte) (*BoxScore, error) {
	var env struct {
		Code          json.RawMessage `json:"code"`
		RealMaxInning json.RawMessage `json:"realMaxInning"`
		Hitters       []struct {
			Table1 string `json:"table1"`
			Table2 string `json:"table2"`
			Table3 string `json:"table3"`
		} `json:"arrHitter"`
		Pitchers []struct {
			Table string `json:"table"`
		} `json:"arrPitcher"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(env.Hitters) < 2 || len(env.Pitchers) < 2 {
		return nil, fmt.Errorf("%w: box score is missing a side (hitters=%d pitchers=%d)",
			ErrMalformedResponse, len(env.Hitters), len(env.Pitchers))
	}

	bs := &BoxScore{
		Code:          decodeCode(env.Code),
		RealMaxInning: decodeInt(env.RealMaxInning),
	}
	for _, side := range Sides {
		for j, blob := range []string{env.Hitters[side].Table1, env.Hitters[side].Table2, env.Hitters[side].Table3} {
			frag, err := table.ParseFragment([]byte(blob))
			if err != nil {
				return nil, err
			}
			bs.Hitters[side][j] = frag
		}
		frag, err := table.ParseFragment([]byte(env.Pitchers[side].Table))
		if err != nil {
			return nil, err
		}
		bs.Pitchers[side] = frag
	}
	return bs, nil
}

// decodeOrderedObject walks a JSON object with a token decoder so the
// key order seen on the wire is preserved. Numbers come back as
// json.Number.
func decodeOrderedObject(data []byte) ([]OrderedField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}

	var fields []OrderedField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string object key", ErrMalformedResponse)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		fields = append(fields, OrderedField{Key: key, Value: value})
	}
	return fields, nil
}

// decodeCode tolerates the status code arriving as a JSON number or a
// quoted string.
func decodeCode(raw json.RawMessage) int {
	return decodeInt(raw)
}

func decodeInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	return toInt(v)
}

func toInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	case float64:
		return int(t)
	case int:
		return t
	}
	return 0
}
