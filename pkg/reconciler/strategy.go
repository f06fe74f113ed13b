package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// Key is one lookup a strategy may try for an Asset.
type Key string

const (
	// KeySerial looks the normalized serial up in the source's serial index.
	KeySerial Key = "serial"
	// KeyHostname looks the lowercased hostname up in the source's hostname index.
	KeyHostname Key = "hostname"
	// KeyBridge resolves the Asset's serial to a hostname through the Intune
	// report, then looks that hostname up in the source.
	KeyBridge Key = "bridge"
	// KeyUser derives a name handle (onatcem_yanik) from a mobile Asset's full
	// name and looks for it among the source's device and user names.
	KeyUser Key = "user"
)

// String returns the string representation of a key.
func (k Key) String() string {
	return string(k)
}

// Method returns the match method recorded when k resolves a match.
func (k Key) Method() inventory.MatchMethod {
	switch k {
	case KeySerial:
		return inventory.MatchSerial
	case KeyHostname, KeyBridge:
		return inventory.MatchHostname
	case KeyUser:
		return inventory.MatchUser
	}
	return inventory.MatchNone
}

// ParseKey resolves a key by name.
func ParseKey(name string) (Key, error) {
	switch k := Key(strings.ToLower(strings.TrimSpace(name))); k {
	case KeySerial, KeyHostname, KeyBridge, KeyUser:
		return k, nil
	}
	return "", &errors.ValidationError{Field: "key", Value: name, Message: "unknown match key"}
}

// Strategy is the ordered list of keys tried for one source. The first key
// that resolves wins, so earlier keys take priority.
type Strategy struct {
	Source inventory.Source
	Keys   []Key
}

// Description returns a human-readable description.
func (s Strategy) Description() string {
	parts := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		parts[i] = k.String()
	}
	return fmt.Sprintf("%s: %s", s.Source.Key(), strings.Join(parts, " > "))
}

// Validate checks the strategy names a known source and only keys it supports.
func (s Strategy) Validate() error {
	if !s.Source.IsValid() {
		return &errors.ValidationError{Field: "source", Value: s.Source, Message: "unknown source"}
	}
	if len(s.Keys) == 0 {
		return &errors.ValidationError{Field: "keys", Message: "at least one key is required"}
	}
	for _, k := range s.Keys {
		if _, err := ParseKey(string(k)); err != nil {
			return err
		}
		if k == KeyBridge && s.Source == inventory.SourceIntune {
			return &errors.ValidationError{Field: "keys", Value: k, Message: "intune cannot bridge through itself"}
		}
	}
	return nil
}

// DefaultStrategies returns the standard matching order: serial then hostname
// for Intune and Jamf; hostname, then the Intune bridge, then the mobile user
// handle for Defender, whose serial column is unreliable.
func DefaultStrategies() map[inventory.Source]Strategy {
	return map[inventory.Source]Strategy{
		inventory.SourceIntune:   {Source: inventory.SourceIntune, Keys: []Key{KeySerial, KeyHostname}},
		inventory.SourceJamf:     {Source: inventory.SourceJamf, Keys: []Key{KeySerial, KeyHostname}},
		inventory.SourceDefender: {Source: inventory.SourceDefender, Keys: []Key{KeyHostname, KeyBridge, KeyUser}},
	}
}
