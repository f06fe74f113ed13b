package tabular

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// checkEvery is how many records are read between context checks.
const checkEvery = 512

func decodeCSV(ctx context.Context, payload []byte) ([]Row, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = sniffDelimiter(payload)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var records [][]string
	for i := 0; ; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return FromRecords(records), nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the
// first non-blank line, ignoring quoted sections. Comma wins ties.
func sniffDelimiter(payload []byte) rune {
	payload = bytes.TrimPrefix(payload, byteOrderMark)
	var line []byte
	for len(payload) > 0 {
		i := bytes.IndexByte(payload, '\n')
		if i < 0 {
			line, payload = payload, nil
		} else {
			line, payload = payload[:i], payload[i+1:]
		}
		if len(bytes.TrimSpace(line)) > 0 {
			break
		}
	}

	counts := map[rune]int{}
	quoted := false
	for _, b := range line {
		switch b {
		case '"':
			quoted = !quoted
		case ',', ';', '\t':
			if !quoted {
				counts[rune(b)]++
			}
		}
	}

	best := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
