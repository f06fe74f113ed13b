// Package assetmap reconciles an asset inventory against Intune, Jamf and
// Defender reports.
//
// A run decodes the inventory and up to three reports concurrently, builds
// canonical Assets, cross-references them against per-source indexes,
// detects report records missing from the inventory and aggregates
// compliance under a named policy. The outcome is stored as a draft
// InventorySnapshot that can later be promoted under a period label.
//
//	am, err := assetmap.New(assetmap.WithPolicyName("strict"))
//	snap, err := am.Reconcile(ctx, assetmap.Inputs{
//		Inventory: assetmap.PathFile("inventory.xlsx"),
//		Intune:    assetmap.PathFile("intune.csv"),
//	})
package assetmap

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/assetmap/pkg/assets"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/orphans"
	"github.com/agentstation/assetmap/pkg/reconciler"
	"github.com/agentstation/assetmap/pkg/snapshots"
	"github.com/agentstation/assetmap/pkg/stats"
	"github.com/agentstation/assetmap/pkg/tabular"
)

// inventorySource names the inventory file in logs and ingestion errors.
const inventorySource = "inventory"

// Assetmap runs reconciliations and keeps their snapshots for the session
type Assetmap interface {
	// Reconcile decodes in, reconciles it and stores a draft snapshot
	Reconcile(ctx context.Context, in Inputs) (*inventory.Snapshot, error)

	// Promote copies a draft into a permanent snapshot under label
	Promote(id, label string) (*inventory.Snapshot, error)

	// Snapshots returns the session snapshot store
	Snapshots() *snapshots.Store

	// Policy returns the compliance policy used for aggregation
	Policy() *stats.Policy

	// OnSnapshotCreated registers a callback for new drafts
	OnSnapshotCreated(SnapshotCreatedHook)

	// OnSnapshotPromoted registers a callback for promotions
	OnSnapshotPromoted(SnapshotPromotedHook)
}

// assetmap is the internal implementation of the Assetmap interface
type assetmap struct {
	config     *config
	builder    *assets.Builder
	reconciler reconciler.Reconciler
	store      *snapshots.Store

	*hooks
}

// New creates a new Assetmap instance with the given options
func New(opts ...Option) (Assetmap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	builder, err := assets.NewBuilder(cfg.assets, assets.WithClock(cfg.now))
	if err != nil {
		return nil, errors.NewConfigError("assets", "invalid exemption lists", err)
	}

	recOpts := append([]reconciler.Option{reconciler.WithClock(cfg.now)}, cfg.reconciler...)
	rec, err := reconciler.New(recOpts...)
	if err != nil {
		return nil, errors.NewConfigError("reconciler", "invalid matching options", err)
	}

	store := cfg.store
	if store == nil {
		store = snapshots.New(snapshots.WithClock(cfg.now))
	}

	return &assetmap{
		config:     cfg,
		builder:    builder,
		reconciler: rec,
		store:      store,
		hooks:      newHooks(),
	}, nil
}

// Snapshots returns the session snapshot store
func (a *assetmap) Snapshots() *snapshots.Store {
	return a.store
}

// Policy returns the compliance policy used for aggregation
func (a *assetmap) Policy() *stats.Policy {
	return a.config.policy
}

// decoded holds the rows of every supplied file.
type decoded struct {
	inventory []tabular.Row
	reports   map[inventory.Source][]tabular.Row
}

// Reconcile decodes in, reconciles it and stores a draft snapshot. Any
// decode failure aborts the run; no partial snapshot is stored.
func (a *assetmap) Reconcile(ctx context.Context, in Inputs) (*inventory.Snapshot, error) {
	if in.Inventory == nil {
		return nil, errors.MissingInventory()
	}

	start := a.config.now()
	ctx = logging.WithOperation(ctx, "reconcile")
	logger := logging.FromContext(ctx)

	rows, err := a.decode(ctx, in)
	if err != nil {
		logger.Warn().Err(err).Msg("Reconciliation aborted")
		return nil, err
	}

	built := a.builder.Build(ctx, rows.inventory)

	var idx reconciler.Indexes
	for _, source := range inventory.Sources() {
		if r, ok := rows.reports[source]; ok {
			idx.Set(a.reconciler.Index(ctx, source, r))
		}
	}

	matched, err := a.reconciler.Match(ctx, built.Assets, idx)
	if err != nil {
		return nil, err
	}

	found := orphans.Detect(ctx, idx, built.Keys)
	counts := idx.Counts()
	dashboard := stats.Compute(ctx, stats.Input{
		Assets:      matched.Assets,
		Orphans:     found,
		CloudCounts: counts,
	}, a.config.policy)

	snap, err := a.store.Put(&inventory.Snapshot{
		PeriodLabel: in.Label,
		Draft:       true,
		Policy:      a.config.policy.Name,
		Assets:      matched.Assets,
		Orphans:     found,
		CloudCounts: counts,
		Stats:       dashboard,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(logging.WithSnapshot(ctx, snap.ID)).Info().
		Int("assets", len(snap.Assets)).
		Int("orphans", len(snap.Orphans)).
		Int("compliant", dashboard.CompliantCount).
		Int("production", dashboard.ProductionCount).
		Str("matches", matched.Summary()).
		Dur("duration", a.config.now().Sub(start)).
		Msg("Reconciliation completed")

	a.snapshotCreated(snap)
	return snap, nil
}

// Promote copies a draft into a permanent snapshot under label
func (a *assetmap) Promote(id, label string) (*inventory.Snapshot, error) {
	draft, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	promoted, err := a.store.Promote(id, label)
	if err != nil {
		return nil, err
	}
	a.snapshotPromoted(draft, promoted)
	return promoted, nil
}

// decode reads every supplied file, at most config.concurrency at a time.
// The first failure cancels the remaining decodes.
func (a *assetmap) decode(ctx context.Context, in Inputs) (*decoded, error) {
	out := &decoded{reports: make(map[inventory.Source][]tabular.Row, 3)}
	reports := make([][]tabular.Row, len(inventory.Sources()))
	present := make([]bool, len(reports))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.concurrency)

	g.Go(func() error {
		rows, err := decodeFile(gctx, inventorySource, in.Inventory)
		out.inventory = rows
		return err
	})
	for i, source := range inventory.Sources() {
		f := in.Report(source)
		if f == nil {
			continue
		}
		present[i] = true
		g.Go(func() error {
			rows, err := decodeFile(gctx, source.Key(), f)
			reports[i] = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, source := range inventory.Sources() {
		if present[i] {
			out.reports[source] = reports[i]
		}
	}
	return out, nil
}

// decodeRows decodes f straight from disk when it is path backed.
func decodeRows(ctx context.Context, f *File) ([]tabular.Row, error) {
	if f.path != "" {
		return tabular.DecodeFile(ctx, f.path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.WrapIO("open", f.Name, err)
	}
	defer func() { _ = rc.Close() }()
	return tabular.Decode(ctx, f.Name, rc)
}

// decodeFile opens and decodes f, wrapping any failure as an ingestion
// error for source.
func decodeFile(ctx context.Context, source string, f *File) ([]tabular.Row, error) {
	ctx = logging.WithSource(ctx, source)
	started := time.Now()

	rows, err := decodeRows(ctx, f)
	if err != nil {
		return nil, errors.WrapIngestion(source, f.Name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("file", f.Name).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(started)).
		Msg("File decoded")
	return rows, nil
}
