package tabular

import (
	"strconv"
	"strings"
	"time"
)

// Plain numbers in this range are read as Excel serial dates (1927 to 9999).
const (
	minExcelSerial = 10000
	maxExcelSerial = 2958466
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02.01.2006 15:04",
	"2.1.2006",
	"02/01/2006",
	"01-02-06",
	"1/2/06",
	"2006/01/02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
}

// ParseDate parses the date formats seen in inventory and report exports,
// including Excel serial day numbers that reached the file as plain numbers.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial < maxExcelSerial {
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return epoch.AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}

