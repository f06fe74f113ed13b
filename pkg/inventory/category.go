package inventory

import "strings"

// Category is the closed set of device categories an Asset can carry.
type Category string

// Device categories.
const (
	CategoryDesktop  Category = "Desktop"
	CategoryNotebook Category = "Notebook"
	CategoryMacBook  Category = "MacBook"
	CategoryIPhone   Category = "iPhone"
	CategoryIPad     Category = "iPad"
	CategoryMonitor  Category = "Monitor"
	CategoryOther    Category = "Other"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryDesktop,
		CategoryNotebook,
		CategoryMacBook,
		CategoryIPhone,
		CategoryIPad,
		CategoryMonitor,
		CategoryOther,
	}
}

// String returns the string representation of a category.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c belongs to the category set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDesktop, CategoryNotebook, CategoryMacBook,
		CategoryIPhone, CategoryIPad, CategoryMonitor, CategoryOther:
		return true
	}
	return false
}

// IsMobile reports whether c is a phone or tablet.
func (c Category) IsMobile() bool {
	return c == CategoryIPhone || c == CategoryIPad
}

// IsPC reports whether c is a Windows-class computer.
func (c Category) IsPC() bool {
	return c == CategoryDesktop || c == CategoryNotebook
}

// IsMac reports whether c is a Mac.
func (c Category) IsMac() bool {
	return c == CategoryMacBook
}

// MobileBucket is the display bucket iPhones and iPads are merged into.
const MobileBucket = "iPhone & iPad"

// DisplayBucket returns the distribution bucket for c.
func (c Category) DisplayBucket() string {
	if c.IsMobile() {
		return MobileBucket
	}
	return string(c)
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}
