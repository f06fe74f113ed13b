package inventory

import "strings"

// Source identifies one of the management reports reconciled against the inventory.
type Source string

// Management report sources.
const (
	// SourceIntune is the MDM enrollment report.
	SourceIntune Source = "Intune"
	// SourceJamf is the Mac device management report.
	SourceJamf Source = "Jamf"
	// SourceDefender is the endpoint protection report.
	SourceDefender Source = "Defender"
)

// SourceInventory names the authoritative inventory file in logs and errors.
const SourceInventory = "inventory"

// Sources returns the management sources in matching order.
func Sources() []Source {
	return []Source{SourceIntune, SourceJamf, SourceDefender}
}

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Key returns the lowercase form used for flags, form fields and config keys.
func (s Source) Key() string {
	return strings.ToLower(string(s))
}

// IsValid reports whether s is a known management source.
func (s Source) IsValid() bool {
	switch s {
	case SourceIntune, SourceJamf, SourceDefender:
		return true
	}
	return false
}

// ParseSource resolves a source by name, case-insensitively.
func ParseSource(name string) (Source, bool) {
	for _, s := range Sources() {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return "", false
}

// MatchMethod records which identifier resolved a cross-source match.
type MatchMethod string

// Match methods.
const (
	MatchNone     MatchMethod = ""
	MatchSerial   MatchMethod = "Serial"
	MatchHostname MatchMethod = "Hostname"
	MatchAssetTag MatchMethod = "AssetTag"
	MatchUser     MatchMethod = "User"
)

// String returns the string representation of a match method.
func (m MatchMethod) String() string {
	return string(m)
}
