package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/assetmap/internal/filter"
	"github.com/agentstation/assetmap/internal/server/response"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/export"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/stats"
)

// HandleAssets handles GET /api/v1/snapshots/{id}/assets.
//
// Query parameters: dashboard, device, status, brand, model, user, q,
// limit and offset.
func (h *Handlers) HandleAssets(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	f, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	f.Policy = h.policy(snap)

	assets := f.Select(snap)
	response.OK(w, response.Paged{
		Items:  filter.Apply(assets, f),
		Total:  filter.Total(assets, f),
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// HandleOrphans handles GET /api/v1/snapshots/{id}/orphans. The optional
// source parameter narrows the list to one report.
func (h *Handlers) HandleOrphans(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	q := r.URL.Query()
	f, err := filter.ParseQuery(q)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	f.Dashboard = filter.All
	if name := q.Get("source"); name != "" {
		source, ok := inventory.ParseSource(name)
		if !ok {
			response.ErrorFromType(w, &errors.ValidationError{Field: "source", Value: name, Message: "unknown source"})
			return
		}
		f.Dashboard = filter.Dashboard("ORPHAN_" + strings.ToUpper(source.Key()))
	}

	response.OK(w, response.Paged{
		Items:  filter.Apply(snap.Orphans, f),
		Total:  filter.Total(snap.Orphans, f),
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// HandleStats handles GET /api/v1/snapshots/{id}/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, snap.Stats)
}

// HandleOptions handles GET /api/v1/snapshots/{id}/options, listing the
// distinct values of one filter column.
func (h *Handlers) HandleOptions(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	q := r.URL.Query()
	values, err := filter.Options(snap.Assets, q.Get("column"), q.Get("device"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, values)
}

// HandleExportCSV handles GET /api/v1/snapshots/{id}/export.csv. It accepts
// the asset filters and always exports every matching row.
func (h *Handlers) HandleExportCSV(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	f, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	f.Policy = h.policy(snap)
	f.Limit, f.Offset = 0, 0

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(snap, f)))
	if err := export.WriteCSV(w, filter.Apply(f.Select(snap), f)); err != nil {
		h.logger.Error().Err(err).Str("snapshot_id", snap.ID).Msg("CSV export failed")
	}
}

// exportName builds the download file name of a filtered export.
func exportName(snap *inventory.Snapshot, f filter.Filter) string {
	name := "assets"
	if f.Dashboard != filter.All {
		name = strings.ToLower(string(f.Dashboard))
	}
	if label := strings.TrimSpace(snap.PeriodLabel); label != "" {
		name += "-" + strings.ReplaceAll(label, " ", "_")
	}
	return name + ".csv"
}

// HandleReport handles GET /api/v1/snapshots/{id}/report.md.
func (h *Handlers) HandleReport(w http.ResponseWriter, _ *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if err := export.WriteReport(w, snap); err != nil {
		h.logger.Error().Err(err).Str("snapshot_id", snap.ID).Msg("Report export failed")
	}
}

// NarrativeResponse is the body of a narrative response.
type NarrativeResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Narrative  string `json:"narrative"`
	Cached     bool   `json:"cached"`
}

// HandleNarrative handles GET /api/v1/snapshots/{id}/narrative. Narratives
// are generated once per snapshot and served from cache afterwards.
func (h *Handlers) HandleNarrative(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	if text, ok := h.cache.Narrative(snap.ID); ok {
		response.OK(w, NarrativeResponse{SnapshotID: snap.ID, Narrative: text, Cached: true})
		return
	}

	narrator, err := h.app.Narrator(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	text, err := narrator.Generate(r.Context(), snap.Stats)
	if err != nil {
		h.logger.Error().Err(err).Str("snapshot_id", snap.ID).Msg("Narrative generation failed")
		response.ErrorFromType(w, err)
		return
	}

	h.cache.SetNarrative(snap.ID, text)
	response.OK(w, NarrativeResponse{SnapshotID: snap.ID, Narrative: text})
}

// HandlePolicies handles GET /api/v1/policies.
func (h *Handlers) HandlePolicies(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"active":   h.assetmap.Policy().Name,
		"policies": stats.List(),
	})
}
