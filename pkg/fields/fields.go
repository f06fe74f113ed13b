// Package fields resolves values from loosely named spreadsheet columns.
//
// Exports from different systems name the same column differently and often
// in Turkish ("Seri Numarası", "Personel Tam İsim"). A value is resolved from
// an ordered list of candidate names: a header matches a candidate when, after
// Turkish-locale lowercasing and trimming, it equals or contains the
// candidate. Turkish casing keeps the dotted and dotless I distinct so that
// "İSİM" folds to "isim" rather than "i̇si̇m".
package fields

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/assetmap/pkg/tabular"
)

// Lower lowercases s using Turkish casing rules.
func Lower(s string) string {
	// A Caser holds state and is not safe for concurrent use.
	return cases.Lower(language.Turkish).String(s)
}

// Fold lowercases and trims s.
func Fold(s string) string {
	return strings.TrimSpace(Lower(s))
}

// Resolve returns the first non-empty value whose header matches one of the
// candidates, trying candidates in order. It returns "" when nothing matches.
func Resolve(row tabular.Row, candidates ...string) string {
	return resolve(row, candidates, Fold)
}

// Resolver resolves fields while caching folded headers. A Resolver is not
// safe for concurrent use.
type Resolver struct {
	caser  cases.Caser
	folded map[string]string
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		caser:  cases.Lower(language.Turkish),
		folded: make(map[string]string),
	}
}

// Resolve behaves like the package level Resolve.
func (r *Resolver) Resolve(row tabular.Row, candidates ...string) string {
	return resolve(row, candidates, r.fold)
}

// Fold lowercases and trims s using the resolver's cache.
func (r *Resolver) Fold(s string) string {
	return r.fold(s)
}

func (r *Resolver) fold(s string) string {
	if f, ok := r.folded[s]; ok {
		return f
	}
	f := strings.TrimSpace(r.caser.String(s))
	r.folded[s] = f
	return f
}

func resolve(row tabular.Row, candidates []string, fold func(string) string) string {
	for _, candidate := range candidates {
		want := fold(candidate)
		if want == "" {
			continue
		}
		for i := 0; i < row.Len(); i++ {
			header, cell := row.At(i)
			if cell.IsEmpty() {
				continue
			}
			h := fold(header)
			if h != want && !strings.Contains(h, want) {
				continue
			}
			if v := strings.TrimSpace(cell.String()); v != "" {
				return v
			}
		}
	}
	return ""
}
