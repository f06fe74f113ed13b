// Package reconciler cross-references inventory Assets against the Intune,
// Jamf and Defender reports. Each report is indexed by normalized serial and
// lowercased hostname; each Asset is then looked up per source using an
// ordered list of keys, and the first key that resolves decides the recorded
// match method.
package reconciler

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/assetmap/pkg/identifier"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/tabular"
)

// checkEvery is how many assets are matched between context checks.
const checkEvery = 256

// Reconciler is the main interface for matching Assets against reports.
type Reconciler interface {
	// Index builds the lookup index of a report using the configured columns.
	Index(ctx context.Context, source inventory.Source, rows []tabular.Row) *Index

	// Match annotates copies of assets with the compliance presence found in
	// idx. Sources whose index is nil are reported as absent.
	Match(ctx context.Context, assets []inventory.Asset, idx Indexes) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	strategies map[inventory.Source]Strategy
	columns    map[inventory.Source]Columns
	userMatch  bool
	now        func() time.Time
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		strategies: options.strategies,
		columns:    options.columns,
		userMatch:  options.userMatch,
		now:        options.now,
	}, nil
}

// Index implements Reconciler.
func (r *reconciler) Index(ctx context.Context, source inventory.Source, rows []tabular.Row) *Index {
	return BuildIndex(ctx, source, rows, r.columns[source])
}

// lookup is the pair of keys an Asset is found by.
type lookup struct {
	serial string
	host   string
}

// Match implements Reconciler.
func (r *reconciler) Match(ctx context.Context, assets []inventory.Asset, idx Indexes) (*Result, error) {
	logger := logging.FromContext(ctx).With().Str("operation", "match").Logger()

	now := r.now()
	result := newResult(now, len(assets))
	for _, s := range inventory.Sources() {
		if idx.Get(s) != nil {
			result.Metadata.Sources = append(result.Metadata.Sources, s)
		}
	}

	sync := utc.New(now)
	for i := range assets {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		asset := *assets[i].Clone()
		key := lookup{
			serial: identifier.Normalize(asset.SerialNumber),
			host:   identifier.Hostname(asset.Hostname),
		}
		for _, source := range inventory.Sources() {
			asset.Compliance.Clear(source)
			target := idx.Get(source)
			if target == nil {
				continue
			}
			entry, k, ok := r.find(&asset, key, target, idx)
			if !ok {
				continue
			}
			method := k.Method()
			asset.Compliance.Mark(source, method, cloneRecord(entry.Record))
			if source == inventory.SourceIntune {
				asset.Compliance.ComplianceState = entry.ComplianceState
				asset.Compliance.LastCheckInDays = daysSince(entry.LastCheckIn, now)
			}

			result.Metadata.Stats.record(source, method)
			switch k {
			case KeyBridge:
				result.Metadata.Stats.BridgeMatches++
			case KeyUser:
				result.Metadata.Stats.UserMatches++
			}
		}
		asset.Compliance.LastSync = sync
		result.Assets = append(result.Assets, asset)
	}

	result.Metadata.Stats.AssetsProcessed = len(result.Assets)
	result.Finalize(r.now())

	logger.Debug().
		Int("assets", result.Metadata.Stats.AssetsProcessed).
		Int("intune", result.Metadata.Stats.Matched(inventory.SourceIntune)).
		Int("jamf", result.Metadata.Stats.Matched(inventory.SourceJamf)).
		Int("defender", result.Metadata.Stats.Matched(inventory.SourceDefender)).
		Int("bridge", result.Metadata.Stats.BridgeMatches).
		Int("user", result.Metadata.Stats.UserMatches).
		Dur("duration", result.Metadata.Duration).
		Msg("Assets matched")

	return result, nil
}

// find tries the keys of target's strategy in order.
func (r *reconciler) find(asset *inventory.Asset, key lookup, target *Index, idx Indexes) (*Entry, Key, bool) {
	strategy, ok := r.strategies[target.Source]
	if !ok {
		return nil, "", false
	}
	for _, k := range strategy.Keys {
		var (
			entry *Entry
			found bool
		)
		switch k {
		case KeySerial:
			entry, found = target.BySerial(key.serial)
		case KeyHostname:
			entry, found = target.ByHostname(key.host)
		case KeyBridge:
			if host, ok := idx.Intune.HostnameForSerial(key.serial); ok {
				entry, found = target.ByHostname(host)
			}
		case KeyUser:
			if r.userMatch && asset.Type.IsMobile() && asset.FullName != "" {
				entry, found = target.FindName(Handle(asset.FullName))
			}
		}
		if found {
			return entry, k, true
		}
	}
	return nil, "", false
}

// daysSince returns the whole calendar days between the date in raw and now,
// or nil when raw does not parse.
func daysSince(raw string, now time.Time) *int {
	if raw == "" {
		return nil
	}
	t, ok := tabular.ParseDate(raw)
	if !ok {
		return nil
	}
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
