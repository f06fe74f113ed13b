package assets

// MatchedKeys holds the normalized serials and lowercased hostnames of every
// inventory Asset. Orphan detection checks report records against it.
type MatchedKeys struct {
	serials   map[string]struct{}
	hostnames map[string]struct{}
}

// NewMatchedKeys returns an empty key set.
func NewMatchedKeys() *MatchedKeys {
	return &MatchedKeys{
		serials:   make(map[string]struct{}),
		hostnames: make(map[string]struct{}),
	}
}

// AddSerial records a normalized serial. Empty values are ignored.
func (k *MatchedKeys) AddSerial(serial string) {
	if serial != "" {
		k.serials[serial] = struct{}{}
	}
}

// AddHostname records a lowercased hostname. Empty values are ignored.
func (k *MatchedKeys) AddHostname(host string) {
	if host != "" {
		k.hostnames[host] = struct{}{}
	}
}

// HasSerial reports whether serial belongs to an inventory Asset.
func (k *MatchedKeys) HasSerial(serial string) bool {
	if k == nil || serial == "" {
		return false
	}
	_, ok := k.serials[serial]
	return ok
}

// HasHostname reports whether host belongs to an inventory Asset.
func (k *MatchedKeys) HasHostname(host string) bool {
	if k == nil || host == "" {
		return false
	}
	_, ok := k.hostnames[host]
	return ok
}

// Serials returns the number of distinct serials.
func (k *MatchedKeys) Serials() int {
	if k == nil {
		return 0
	}
	return len(k.serials)
}

// Hostnames returns the number of distinct hostnames.
func (k *MatchedKeys) Hostnames() int {
	if k == nil {
		return 0
	}
	return len(k.hostnames)
}
