package tabular

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

func decodeXLSX(ctx context.Context, r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read raw rows from xlsx: %w", err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sr := &sheetReader{file: f, sheet: sheet, date1904: date1904, dateStyles: map[int]bool{}}

	var (
		headers []string
		rows    = make([]Row, 0, len(formatted))
	)
	for i, values := range formatted {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(values) {
			continue
		}
		if headers == nil {
			headers = Headers(values)
			continue
		}

		var rawValues []string
		if i < len(raw) {
			rawValues = raw[i]
		}
		cells := make([]Cell, len(headers))
		for col := 0; col < len(values) && col < len(headers); col++ {
			rawValue := values[col]
			if col < len(rawValues) {
				rawValue = rawValues[col]
			}
			cells[col] = sr.cell(col+1, i+1, values[col], rawValue)
		}
		rows = append(rows, Row{headers: headers, cells: cells})
	}
	return rows, nil
}

// sheetReader types individual cells of one worksheet.
type sheetReader struct {
	file       *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (sr *sheetReader) cell(col, row int, formatted, raw string) Cell {
	if strings.TrimSpace(raw) == "" && strings.TrimSpace(formatted) == "" {
		return Cell{}
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return StringCell(strings.TrimSpace(formatted))
	}

	typ, err := sr.file.GetCellType(sr.sheet, axis)
	if err != nil {
		return StringCell(strings.TrimSpace(formatted))
	}

	switch typ {
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return DateCell(t)
		}
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			break
		}
		if sr.isDateStyled(axis) {
			if t, err := excelize.ExcelDateToTime(num, sr.date1904); err == nil {
				return DateCell(t)
			}
		}
		return NumberCell(num)
	}
	return StringCell(strings.TrimSpace(formatted))
}

func (sr *sheetReader) isDateStyled(axis string) bool {
	idx, err := sr.file.GetCellStyle(sr.sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if known, ok := sr.dateStyles[idx]; ok {
		return known
	}
	isDate := false
	if style, err := sr.file.GetStyle(idx); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	sr.dateStyles[idx] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in number format ID or a custom format
// code renders a calendar date.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == '\\':
		default:
			b.WriteRune(r)
		}
	}
	clean := b.String()
	return strings.ContainsAny(clean, "yd") || strings.Contains(clean, "mmm")
}
