package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the rendering of date cells.
const DateLayout = "2006-01-02"

// Kind tags the value held by a Cell.
type Kind uint8

// Cell kinds.
const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDate
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a loosely typed spreadsheet value.
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// StringCell returns a text cell. Blank text yields an empty cell.
func StringCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{kind: KindString, text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// DateCell returns a calendar date cell. The time of day is discarded.
func DateCell(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind returns the kind of c.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether c holds no value.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Number returns the numeric value of c.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// Date returns the date value of c.
func (c Cell) Date() (time.Time, bool) {
	return c.date, c.kind == KindDate
}

// String renders c for downstream string handling. Dates render as YYYY-MM-DD.
func (c Cell) String() string {
	switch c.kind {
	case KindString:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		return c.date.Format(DateLayout)
	default:
		return ""
	}
}

// Row is one data row. Headers are shared by every row of a table and kept
// in column order.
type Row struct {
	headers []string
	cells   []Cell
}

// NewRow pairs cells with headers, padding or truncating cells to match.
func NewRow(headers []string, cells []Cell) Row {
	if len(cells) != len(headers) {
		padded := make([]Cell, len(headers))
		copy(padded, cells)
		cells = padded
	}
	return Row{headers: headers, cells: cells}
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.headers) }

// Headers returns the column headers in order.
func (r Row) Headers() []string { return r.headers }

// At returns the header and cell of column i.
func (r Row) At(i int) (string, Cell) {
	return r.headers[i], r.cells[i]
}

// Get returns the cell under header.
func (r Row) Get(header string) (Cell, bool) {
	for i, h := range r.headers {
		if h == header {
			return r.cells[i], true
		}
	}
	return Cell{}, false
}

// IsBlank reports whether every cell is empty.
func (r Row) IsBlank() bool {
	for _, c := range r.cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Map returns the non-empty cells rendered as strings, keyed by header.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.cells))
	for i, c := range r.cells {
		if !c.IsEmpty() {
			m[r.headers[i]] = c.String()
		}
	}
	return m
}

// FromRecords builds rows from string records. The first non-blank record is
// the header row; blank records are skipped.
func FromRecords(records [][]string) []Row {
	var headers []string
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if headers == nil {
			headers = Headers(rec)
			continue
		}
		cells := make([]Cell, len(headers))
		for i := 0; i < len(rec) && i < len(headers); i++ {
			cells[i] = StringCell(strings.TrimSpace(rec[i]))
		}
		rows = append(rows, Row{headers: headers, cells: cells})
	}
	return rows
}

// Headers trims raw header cells, names blank ones column_N and suffixes
// duplicates so every header is unique.
func Headers(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, value := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(value, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			seen[name] = 1
		}
		headers[i] = name
	}
	return headers
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
