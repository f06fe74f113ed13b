package assetmap

import (
	"sync"

	"github.com/agentstation/assetmap/pkg/inventory"
)

// Hook function types for snapshot events
type (
	// SnapshotCreatedHook is called after a reconciliation run stores a draft
	SnapshotCreatedHook func(snap *inventory.Snapshot)

	// SnapshotPromotedHook is called when a draft becomes a permanent snapshot
	SnapshotPromotedHook func(draft, promoted *inventory.Snapshot)
)

// hooks manages snapshot callbacks
type hooks struct {
	mu                 sync.RWMutex
	onSnapshotCreated  []SnapshotCreatedHook
	onSnapshotPromoted []SnapshotPromotedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnSnapshotCreated registers a callback for new drafts
func (h *hooks) OnSnapshotCreated(fn SnapshotCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSnapshotCreated = append(h.onSnapshotCreated, fn)
}

// OnSnapshotPromoted registers a callback for promotions
func (h *hooks) OnSnapshotPromoted(fn SnapshotPromotedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSnapshotPromoted = append(h.onSnapshotPromoted, fn)
}

func (h *hooks) snapshotCreated(snap *inventory.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSnapshotCreated {
		fn(snap)
	}
}

func (h *hooks) snapshotPromoted(draft, promoted *inventory.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSnapshotPromoted {
		fn(draft, promoted)
	}
}
