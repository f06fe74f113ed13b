package assets

import (
	"math"
	"strings"
	"time"

	"github.com/agentstation/assetmap/pkg/inventory"
)

// TagPrefix is prepended to corporate asset tags.
const TagPrefix = "KSN"

// SynthesizeTag derives the display asset tag. The first applicable rule wins:
//
//   - MacBook with a serial: KSN + serial, without repeating an existing KSN.
//   - iPhone/iPad with a serial and no tag: the serial.
//   - Notebook with a serial and a missing or UNK tag: KSN + serial.
//   - Notebook/Desktop with a numeric tag: KSN + tag.
//   - Otherwise the resolved tag, which may be empty.
func SynthesizeTag(category inventory.Category, tag, serial string) string {
	tag = strings.TrimSpace(tag)
	serial = strings.TrimSpace(serial)

	switch {
	case category == inventory.CategoryMacBook && serial != "":
		return TagPrefix + trimTagPrefix(serial)
	case category.IsMobile() && serial != "" && tag == "":
		return serial
	case category == inventory.CategoryNotebook && serial != "" &&
		(tag == "" || strings.HasPrefix(strings.ToUpper(tag), "UNK")):
		return TagPrefix + trimTagPrefix(serial)
	case category.IsPC() && isDigits(tag):
		return TagPrefix + tag
	}
	return tag
}

func trimTagPrefix(s string) string {
	for len(s) >= len(TagPrefix) && strings.EqualFold(s[:len(TagPrefix)], TagPrefix) {
		s = s[len(TagPrefix):]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AgeDays returns the whole number of days between purchase and now,
// rounding partial days up.
func AgeDays(purchase, now time.Time) int {
	diff := now.Sub(purchase)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}
