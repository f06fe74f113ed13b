// Package orphans finds management report records that have no counterpart in
// the asset inventory.
package orphans

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/agentstation/assetmap/pkg/assets"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/reconciler"
)

// StatusNotInInventory is the status given to synthetic orphan Assets.
const StatusNotInInventory = "Not in inventory"

// Detect returns one synthetic Asset for every report record whose
// normalized serial and lowercased hostname are both absent from keys.
// Records are deduplicated per source by serial, or by hostname when the
// record has no serial. Sources are visited in Intune, Jamf, Defender order.
func Detect(ctx context.Context, idx reconciler.Indexes, keys *assets.MatchedKeys) []inventory.Asset {
	var out []inventory.Asset
	for _, source := range inventory.Sources() {
		index := idx.Get(source)
		if index == nil {
			continue
		}
		// Later records replace earlier ones with the same identity.
		var order []string
		latest := make(map[string]*reconciler.Entry)
		for i := range index.Entries {
			e := &index.Entries[i]
			if keys.HasSerial(e.Serial) || keys.HasHostname(e.Hostname) {
				continue
			}
			id := "h:" + e.Hostname
			if e.Serial != "" {
				id = "s:" + e.Serial
			}
			if _, ok := latest[id]; !ok {
				order = append(order, id)
			}
			latest[id] = e
		}
		before := len(out)
		for n, id := range order {
			out = append(out, orphan(source, latest[id], n))
		}
		logging.FromContext(ctx).Debug().
			Str("source", source.Key()).
			Int("entries", index.Len()).
			Int("orphans", len(out)-before).
			Msg("Orphans detected")
	}
	return out
}

// Counts returns the number of orphans per source.
func Counts(orphans []inventory.Asset) map[inventory.Source]int {
	counts := make(map[inventory.Source]int, 3)
	for _, s := range inventory.Sources() {
		counts[s] = 0
	}
	for i := range orphans {
		if orphans[i].IsOrphan {
			counts[orphans[i].OrphanSource]++
		}
	}
	return counts
}

// orphan synthesizes an Asset from a report entry.
func orphan(source inventory.Source, e *reconciler.Entry, n int) inventory.Asset {
	prefix := source.Key()

	serial := strings.ToUpper(e.Serial)
	method := inventory.MatchSerial
	if serial == "" {
		serial = fmt.Sprintf("SN-%s-%d", prefix, n)
		method = inventory.MatchHostname
	}
	host := e.Hostname
	if host == "" {
		host = fmt.Sprintf("Unknown-%s-%d", prefix, n)
	}
	user := e.User
	if user == "" {
		user = inventory.UnassignedUser
	}

	a := inventory.Asset{
		ID:                fmt.Sprintf("orphan-%s-%d", prefix, n),
		AssetTag:          fmt.Sprintf("UNK-%s-%d", prefix, n),
		SerialNumber:      serial,
		Hostname:          host,
		Model:             e.Model,
		StatusDescription: StatusNotInInventory,
		Type:              e.Category,
		AssignedUser:      user,
		IsOrphan:          true,
		OrphanSource:      source,
	}
	a.Compliance.Mark(source, method, maps.Clone(e.Record))
	if source == inventory.SourceIntune {
		a.Compliance.ComplianceState = e.ComplianceState
	}
	return a
}
