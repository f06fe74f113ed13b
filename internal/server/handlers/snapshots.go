package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/server/response"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// maxMemory is how much of a multipart upload is held in memory before
// spilling to temporary files.
const maxMemory = 32 << 20

// SnapshotDetail is a snapshot without its record collections.
type SnapshotDetail struct {
	inventory.Summary
	CloudCounts map[inventory.Source]int `json:"cloud_counts"`
	Stats       inventory.DashboardStats `json:"stats"`
}

func detail(snap *inventory.Snapshot) SnapshotDetail {
	return SnapshotDetail{
		Summary:     snap.Summary(),
		CloudCounts: snap.CloudCounts,
		Stats:       snap.Stats,
	}
}

// HandleReconcile handles POST /api/v1/reconcile.
//
// The multipart form carries the inventory file and optional intune, jamf
// and defender reports plus an optional label. The result is stored as a
// draft snapshot.
func (h *Handlers) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.JSON(w, http.StatusRequestEntityTooLarge, response.Fail(
				"PAYLOAD_TOO_LARGE", "Upload too large", "",
			))
			return
		}
		response.BadRequest(w, "Invalid multipart form", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := assetmap.Inputs{Label: strings.TrimSpace(r.FormValue("label"))}

	inv, err := formFile(r, "inventory")
	if err != nil {
		response.BadRequest(w, "Could not read upload", err.Error())
		return
	}
	in.Inventory = inv

	for _, source := range inventory.Sources() {
		f, err := formFile(r, source.Key())
		if err != nil {
			response.BadRequest(w, "Could not read upload", err.Error())
			return
		}
		in.SetReport(source, f)
	}

	snap, err := h.assetmap.Reconcile(r.Context(), in)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Reconciliation failed")
		response.ErrorFromType(w, err)
		return
	}

	response.Created(w, detail(snap))
}

// formFile reads an optional upload field into memory. A missing field
// yields a nil file.
func formFile(r *http.Request, field string) (*assetmap.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.WrapIO("read", header.Filename, err)
	}
	return assetmap.BytesFile(header.Filename, payload), nil
}

// HandleListSnapshots handles GET /api/v1/snapshots.
func (h *Handlers) HandleListSnapshots(w http.ResponseWriter, _ *http.Request) {
	list := h.assetmap.Snapshots().List()
	summaries := make([]inventory.Summary, 0, len(list))
	for _, snap := range list {
		summaries = append(summaries, snap.Summary())
	}
	response.OK(w, summaries)
}

// HandleGetSnapshot handles GET /api/v1/snapshots/{id}.
func (h *Handlers) HandleGetSnapshot(w http.ResponseWriter, _ *http.Request, id string) {
	snap, err := h.snapshot(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, detail(snap))
}

// PromoteRequest is the body of a promote request.
type PromoteRequest struct {
	Label string `json:"label"`
}

// HandlePromote handles POST /api/v1/snapshots/{id}/promote. The period
// label comes from a JSON body or a form field.
func (h *Handlers) HandlePromote(w http.ResponseWriter, r *http.Request, id string) {
	var req PromoteRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "Invalid JSON body", err.Error())
			return
		}
	} else {
		req.Label = r.FormValue("label")
	}

	promoted, err := h.assetmap.Promote(id, req.Label)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.logger.Info().
		Str("draft_id", id).
		Str("snapshot_id", promoted.ID).
		Str("label", promoted.PeriodLabel).
		Msg("Snapshot promoted")
	response.Created(w, detail(promoted))
}
