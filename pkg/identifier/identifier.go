// Package identifier normalizes serial numbers and hostnames so records from
// different exports can be compared. Every function is pure and total.
package identifier

import (
	"strings"

	"github.com/agentstation/assetmap/pkg/inventory"
)

// labelPrefixes are stripped from the start of serials. Longer labels first.
var labelPrefixes = []string{"s/n:", "seri:", "sn:"}

// minMobileSerial is the shortest remainder a mobile serial may have after
// its stray leading S is removed.
const minMobileSerial = 10

// Normalize strips label prefixes (S/N:, Seri:, SN:), trims and lowercases a
// serial number. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	return strings.ToLower(StripLabel(raw))
}

// StripLabel removes label prefixes and surrounding whitespace from a serial
// while preserving its case.
func StripLabel(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		stripped := false
		lower := strings.ToLower(s)
		for _, p := range labelPrefixes {
			if strings.HasPrefix(lower, p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// Hostname trims and lowercases a hostname.
func Hostname(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CleanMobileSerial removes one stray leading S or s from phone and tablet
// serials when at least ten characters remain. Other categories are returned
// trimmed but otherwise unchanged.
func CleanMobileSerial(serial string, category inventory.Category) string {
	s := strings.TrimSpace(serial)
	if !category.IsMobile() || s == "" {
		return s
	}
	if (s[0] == 'S' || s[0] == 's') && len(s)-1 >= minMobileSerial {
		return s[1:]
	}
	return s
}
