package reconciler

import (
	"strings"

	"github.com/agentstation/assetmap/pkg/fields"
)

// handleReplacer transliterates Turkish letters after Turkish lowercasing.
// "i̇" is the dotted i that lowercasing a decomposed İ can leave behind.
var handleReplacer = strings.NewReplacer(
	"i̇", "i",
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ı", "i",
	"ö", "o",
	"ç", "c",
)

// Handle builds the user handle Defender uses to name mobile devices:
// given names run together, an underscore, then the surname.
//
//	Handle("Onat Cem Yanık") == "onatcem_yanik"
//	Handle("Erdinç Zaman")   == "erdinc_zaman"
func Handle(fullName string) string {
	clean := handleReplacer.Replace(fields.Lower(fullName))

	var b strings.Builder
	for _, r := range clean {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		}
	}

	parts := strings.Fields(b.String())
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	last := len(parts) - 1
	return strings.Join(parts[:last], "") + "_" + parts[last]
}
