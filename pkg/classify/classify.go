// Package classify infers a device category from free-text inventory fields.
//
// Brand, model, type and status are joined, lowercased with Turkish casing
// rules and tested against an ordered list of keyword rules. The first rule
// that matches decides the category; when nothing matches the device is a
// Notebook. Tablet and phone rules run before the Mac rule so that "iOS"
// devices are never taken for Macs.
package classify

import (
	"regexp"
	"strings"

	"github.com/agentstation/assetmap/pkg/fields"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// Default is returned when no rule matches.
const Default = inventory.CategoryNotebook

// Rule is one step of the classification chain.
type Rule struct {
	Name     string
	Category inventory.Category
	// Keywords match as substrings of the folded text.
	Keywords []string
	// Unless vetoes the rule when any of these substrings is present.
	Unless []string

	match func(text string) (inventory.Category, bool)
}

// Match reports the category the rule assigns to text, if any.
func (r Rule) Match(text string) (inventory.Category, bool) {
	if r.match != nil {
		return r.match(text)
	}
	if !containsAny(text, r.Keywords) || containsAny(text, r.Unless) {
		return "", false
	}
	return r.Category, true
}

var (
	iphoneModel = regexp.MustCompile(`\b(1[1-9][a-z]?|se|x|xr|xs|mini|plus|max|pro|6s?|7|8|16e)\b`)
	storageSize = regexp.MustCompile(`\b\d{2,3}gb\b`)

	macHardware = []string{"ssd", "tb", "m1", "m2", "m3"}
)

var rules = []Rule{
	{
		Name:     "tablet",
		Category: inventory.CategoryIPad,
		Keywords: []string{"ipad", "ıpad", "tablet"},
	},
	{
		Name:     "phone",
		Category: inventory.CategoryIPhone,
		Keywords: []string{"iphone", "ıphone", "ios", "ıos", "telefon", "phone", "mobile"},
	},
	{
		Name:     "mac",
		Category: inventory.CategoryMacBook,
		Keywords: []string{"macbook", "imac", "mac mini", "mac studio", "mac pro", "osx", "macos"},
	},
	{
		Name:     "monitor",
		Category: inventory.CategoryMonitor,
		Keywords: []string{"monitor", "display", "screen", "ekran"},
		Unless:   []string{"latitude", "thinkpad", "mac"},
	},
	{
		Name:     "notebook",
		Category: inventory.CategoryNotebook,
		Keywords: []string{
			"laptop", "notebook", "dizüstü", "portable", "latitude", "thinkpad", "elitebook", "probook",
			"yoga", "surface", "xps", "zenbook", "spectre", "air", "book",
		},
	},
	{
		Name:     "desktop",
		Category: inventory.CategoryDesktop,
		Keywords: []string{
			"desktop", "tower", "masaüstü", "optiplex", "precision", "prodesk", "elitedesk",
			"inspiron dt", "veriton", "esprimo", "workstation", "all-in-one", "aio", "kasa", "pc",
		},
	},
	{
		Name:     "apple",
		Keywords: []string{"apple"},
		match:    matchApple,
	},
}

// Rules returns the classification chain in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the category for a device. It never fails.
func Classify(brand, model, freeTextCategory, status string) inventory.Category {
	text := Text(brand, model, freeTextCategory, status)
	for _, r := range rules {
		if c, ok := r.Match(text); ok {
			return c
		}
	}
	return Default
}

// Explain returns the category and the name of the rule that produced it,
// or "default" when no rule matched.
func Explain(brand, model, freeTextCategory, status string) (inventory.Category, string) {
	text := Text(brand, model, freeTextCategory, status)
	for _, r := range rules {
		if c, ok := r.Match(text); ok {
			return c, r.Name
		}
	}
	return Default, "default"
}

// Text joins and folds the classifier inputs.
func Text(parts ...string) string {
	return fields.Lower(strings.Join(parts, " "))
}

// matchApple separates iPhones from Macs when only the brand says Apple.
// Model numbers and storage sizes point to a phone unless Mac-only
// hardware tokens are present.
func matchApple(text string) (inventory.Category, bool) {
	if !strings.Contains(text, "apple") {
		return "", false
	}
	if iphoneModel.MatchString(text) {
		if !containsAny(text, macHardware) || storageSize.MatchString(text) {
			return inventory.CategoryIPhone, true
		}
	}
	return inventory.CategoryMacBook, true
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
