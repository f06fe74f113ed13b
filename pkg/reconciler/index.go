package reconciler

import (
	"context"
	"maps"
	"strings"

	"github.com/agentstation/assetmap/pkg/classify"
	"github.com/agentstation/assetmap/pkg/fields"
	"github.com/agentstation/assetmap/pkg/identifier"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/tabular"
)

// Entry is one usable record of a management report.
type Entry struct {
	Row      int                // zero-based data row in the report
	Serial   string             // normalized, mobile cleaned
	Hostname string             // lowercased
	User     string             // lowercased
	Model    string
	Category inventory.Category // inferred from the row's own model and OS

	ComplianceState string
	LastCheckIn     string

	Record inventory.Record
}

// Index holds one report keyed for lookup. A nil *Index stands for a report
// that was not supplied; every method is safe on nil.
type Index struct {
	Source  inventory.Source
	Rows    int
	Entries []Entry

	bySerial     map[string]int
	byHost       map[string]int
	serialToHost map[string]string
	names        map[string]struct{}
}

// BuildIndex indexes rows of a management report using cols to find the
// identifying columns. When the same serial or hostname appears more than
// once, the later row wins.
func BuildIndex(ctx context.Context, source inventory.Source, rows []tabular.Row, cols Columns) *Index {
	idx := &Index{
		Source:       source,
		Rows:         len(rows),
		Entries:      make([]Entry, 0, len(rows)),
		bySerial:     make(map[string]int, len(rows)),
		byHost:       make(map[string]int, len(rows)),
		serialToHost: make(map[string]string),
		names:        make(map[string]struct{}, len(rows)*2),
	}

	resolver := fields.NewResolver()
	skipped, duplicates := 0, 0
	for i, row := range rows {
		if row.IsBlank() {
			skipped++
			continue
		}

		model := resolver.Resolve(row, cols.Model...)
		osName := resolver.Resolve(row, cols.OS...)
		category := classify.Classify("", model, osName, "")

		rawSerial := resolver.Resolve(row, cols.Serial...)
		serial := strings.ToLower(identifier.CleanMobileSerial(identifier.StripLabel(rawSerial), category))
		host := identifier.Hostname(resolver.Resolve(row, cols.Hostname...))
		if serial == "" && host == "" {
			skipped++
			continue
		}

		e := Entry{
			Row:             i,
			Serial:          serial,
			Hostname:        host,
			User:            strings.ToLower(resolver.Resolve(row, cols.User...)),
			Model:           model,
			Category:        category,
			ComplianceState: resolver.Resolve(row, cols.ComplianceState...),
			LastCheckIn:     resolver.Resolve(row, cols.LastCheckIn...),
			Record:          row.Map(),
		}
		pos := len(idx.Entries)
		idx.Entries = append(idx.Entries, e)

		if serial != "" {
			if _, ok := idx.bySerial[serial]; ok {
				duplicates++
			}
			idx.bySerial[serial] = pos
			idx.names[serial] = struct{}{}
		}
		if host != "" {
			idx.byHost[host] = pos
			idx.names[host] = struct{}{}
			if serial != "" {
				idx.serialToHost[serial] = host
			}
		}
		if e.User != "" {
			idx.names[e.User] = struct{}{}
		}
	}

	logging.FromContext(ctx).Debug().
		Str("source", source.Key()).
		Int("rows", len(rows)).
		Int("entries", len(idx.Entries)).
		Int("skipped", skipped).
		Int("duplicate_serials", duplicates).
		Msg("Index built")

	return idx
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}

// BySerial returns the entry with the given normalized serial.
func (idx *Index) BySerial(serial string) (*Entry, bool) {
	if idx == nil || serial == "" {
		return nil, false
	}
	return idx.entry(idx.bySerial, serial)
}

// ByHostname returns the entry with the given lowercased hostname.
func (idx *Index) ByHostname(host string) (*Entry, bool) {
	if idx == nil || host == "" {
		return nil, false
	}
	return idx.entry(idx.byHost, host)
}

// HostnameForSerial returns the hostname reported alongside serial.
func (idx *Index) HostnameForSerial(serial string) (string, bool) {
	if idx == nil || serial == "" {
		return "", false
	}
	host, ok := idx.serialToHost[serial]
	return host, ok
}

// FindName returns the first entry whose hostname, serial or user equals
// handle, or failing that contains it.
func (idx *Index) FindName(handle string) (*Entry, bool) {
	if idx == nil || handle == "" {
		return nil, false
	}
	if _, ok := idx.names[handle]; ok {
		return idx.findEntry(func(v string) bool { return v == handle })
	}
	return idx.findEntry(func(v string) bool { return strings.Contains(v, handle) })
}

func (idx *Index) findEntry(match func(string) bool) (*Entry, bool) {
	for i := range idx.Entries {
		e := &idx.Entries[i]
		if match(e.Hostname) || match(e.Serial) || match(e.User) {
			return e, true
		}
	}
	return nil, false
}

func (idx *Index) entry(m map[string]int, key string) (*Entry, bool) {
	pos, ok := m[key]
	if !ok {
		return nil, false
	}
	return &idx.Entries[pos], true
}

// Indexes groups the per-source indexes of one run. Nil fields mark reports
// that were not supplied.
type Indexes struct {
	Intune   *Index
	Jamf     *Index
	Defender *Index
}

// Get returns the index for source.
func (x Indexes) Get(source inventory.Source) *Index {
	switch source {
	case inventory.SourceIntune:
		return x.Intune
	case inventory.SourceJamf:
		return x.Jamf
	case inventory.SourceDefender:
		return x.Defender
	}
	return nil
}

// Set stores idx under its own source.
func (x *Indexes) Set(idx *Index) {
	if idx == nil {
		return
	}
	switch idx.Source {
	case inventory.SourceIntune:
		x.Intune = idx
	case inventory.SourceJamf:
		x.Jamf = idx
	case inventory.SourceDefender:
		x.Defender = idx
	}
}

// Counts returns the raw row count of every supplied report.
func (x Indexes) Counts() map[inventory.Source]int {
	counts := make(map[inventory.Source]int, 3)
	for _, s := range inventory.Sources() {
		if idx := x.Get(s); idx != nil {
			counts[s] = idx.Rows
		}
	}
	return counts
}

func cloneRecord(r inventory.Record) inventory.Record {
	return maps.Clone(r)
}
