package wizard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kestrelworks/winnow/internal/presets"
	"github.com/kestrelworks/winnow/pkg/handlers"
	"github.com/kestrelworks/winnow/pkg/routes"
)

// Handler provides HTTP endpoints for wizard operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// OpenRequest starts or refreshes a wizard session.
type OpenRequest struct {
	UploadID string `json:"upload_id"`
	FileName string `json:"file_name"`
}

// ColumnsRequest carries a column list for selection or required marking.
type ColumnsRequest struct {
	Columns []string `json:"columns"`
}

// PresetRequest selects a settings preset; "none" clears the selection.
type PresetRequest struct {
	PresetID string `json:"preset_id"`
}

// ToggleRequest flips one rule's selected flag.
type ToggleRequest struct {
	Selected bool `json:"selected"`
}

// RuleIDsRequest carries rule ids for disable or override sets.
type RuleIDsRequest struct {
	RuleIDs []string `json:"rule_ids"`
}

// SuggestRequest asks for a custom rule candidate.
type SuggestRequest struct {
	Column string `json:"column"`
	Prompt string `json:"prompt"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "wizard"),
	}
}

// Routes returns the route group definition for wizard endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/wizard",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/open", Handler: h.Open},
			{Method: "GET", Pattern: "/steps", Handler: h.Steps},
			{Method: "GET", Pattern: "/{uploadId}", Handler: h.Session},
			{Method: "DELETE", Pattern: "/{uploadId}", Handler: h.Close},
			{Method: "POST", Pattern: "/{uploadId}/next", Handler: h.Next},
			{Method: "POST", Pattern: "/{uploadId}/prev", Handler: h.Prev},
			{Method: "PUT", Pattern: "/{uploadId}/columns", Handler: h.SelectColumns},
			{Method: "PUT", Pattern: "/{uploadId}/required", Handler: h.SetRequired},
			{Method: "POST", Pattern: "/{uploadId}/profiles", Handler: h.FetchProfiles},
			{Method: "POST", Pattern: "/{uploadId}/profiles/{column}", Handler: h.ProfileColumn},
			{Method: "PUT", Pattern: "/{uploadId}/preset", Handler: h.SelectPreset},
			{Method: "PUT", Pattern: "/{uploadId}/settings", Handler: h.OverrideSettings},
			{Method: "PUT", Pattern: "/{uploadId}/rules/global/{ruleId}", Handler: h.ToggleGlobal},
			{Method: "PUT", Pattern: "/{uploadId}/rules/{column}/{ruleId}", Handler: h.ToggleColumn},
			{Method: "PUT", Pattern: "/{uploadId}/rules/{column}/disable", Handler: h.Disable},
			{Method: "PUT", Pattern: "/{uploadId}/rules/{column}/override", Handler: h.Override},
			{Method: "DELETE", Pattern: "/{uploadId}/rules/{column}/override", Handler: h.ClearOverride},
			{Method: "DELETE", Pattern: "/{uploadId}/rules/custom/{ruleId}", Handler: h.RemoveCustom},
			{Method: "POST", Pattern: "/{uploadId}/suggest", Handler: h.Suggest},
			{Method: "POST", Pattern: "/{uploadId}/suggest/approve", Handler: h.Approve},
			{Method: "POST", Pattern: "/{uploadId}/suggest/reject", Handler: h.Reject},
			{Method: "POST", Pattern: "/{uploadId}/submit", Handler: h.Submit},
			{Method: "GET", Pattern: "/{uploadId}/status", Handler: h.Status},
			{Method: "POST", Pattern: "/{uploadId}/cancel", Handler: h.Cancel},
		},
	}
}

// Open discovers columns for an upload and opens its session.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.Open(r.Context(), req.UploadID, req.FileName)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, state)
}

// Steps returns the wizard steps in progression order.
func (h *Handler) Steps(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Steps())
}

// Session returns the current session state.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.Session(r.PathValue("uploadId"))
	h.respondState(w, state, err)
}

// Close discards the session.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.sys.Close(r.PathValue("uploadId"))
	w.WriteHeader(http.StatusNoContent)
}

// Next advances the wizard one step when the current step allows it.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.Advance(r.PathValue("uploadId"))
	h.respondState(w, state, err)
}

// Prev moves the wizard back one step.
func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.Back(r.PathValue("uploadId"))
	h.respondState(w, state, err)
}

// SelectColumns replaces the column selection.
func (h *Handler) SelectColumns(w http.ResponseWriter, r *http.Request) {
	var req ColumnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.SelectColumns(r.PathValue("uploadId"), req.Columns)
	h.respondState(w, state, err)
}

// SetRequired replaces the required column set.
func (h *Handler) SetRequired(w http.ResponseWriter, r *http.Request) {
	var req ColumnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.SetRequired(r.PathValue("uploadId"), req.Columns)
	h.respondState(w, state, err)
}

// FetchProfiles batch-fetches profiles for uncached selected columns.
func (h *Handler) FetchProfiles(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.FetchProfiles(r.Context(), r.PathValue("uploadId"))
	h.respondState(w, state, err)
}

// ProfileColumn fetches a single column's profile.
func (h *Handler) ProfileColumn(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.ProfileColumn(r.Context(), r.PathValue("uploadId"), r.PathValue("column"))
	h.respondState(w, state, err)
}

// SelectPreset applies a settings preset to the session.
func (h *Handler) SelectPreset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.SelectPreset(r.Context(), r.PathValue("uploadId"), req.PresetID)
	h.respondState(w, state, err)
}

// OverrideSettings records session-local settings edits.
func (h *Handler) OverrideSettings(w http.ResponseWriter, r *http.Request) {
	var settings presets.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.OverrideSettings(r.PathValue("uploadId"), settings)
	h.respondState(w, state, err)
}

// ToggleGlobal flips a global rule's selected flag.
func (h *Handler) ToggleGlobal(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.ToggleGlobalRule(r.PathValue("uploadId"), r.PathValue("ruleId"), req.Selected)
	h.respondState(w, state, err)
}

// ToggleColumn flips a column rule's selected flag.
func (h *Handler) ToggleColumn(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.ToggleColumnRule(
		r.PathValue("uploadId"),
		r.PathValue("column"),
		r.PathValue("ruleId"),
		req.Selected,
	)
	h.respondState(w, state, err)
}

// Disable records a baseline exclusion set for a column.
func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	var req RuleIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.DisableRules(r.PathValue("uploadId"), r.PathValue("column"), req.RuleIDs)
	h.respondState(w, state, err)
}

// Override records a full replacement rule set for a column.
func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	var req RuleIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.OverrideRules(r.PathValue("uploadId"), r.PathValue("column"), req.RuleIDs)
	h.respondState(w, state, err)
}

// ClearOverride removes a column's override.
func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.ClearOverride(r.PathValue("uploadId"), r.PathValue("column"))
	h.respondState(w, state, err)
}

// RemoveCustom deletes a custom rule by id.
func (h *Handler) RemoveCustom(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.RemoveCustomRule(r.PathValue("uploadId"), r.PathValue("ruleId"))
	h.respondState(w, state, err)
}

// Suggest requests a custom rule candidate for a column.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.Suggest(r.Context(), r.PathValue("uploadId"), req.Column, req.Prompt)
	h.respondState(w, state, err)
}

// Approve appends the pending candidate to the session's custom rules.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.ApproveSuggestion(r.PathValue("uploadId"))
	h.respondState(w, state, err)
}

// Reject discards the pending candidate.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	state, err := h.sys.RejectSuggestion(r.PathValue("uploadId"))
	h.respondState(w, state, err)
}

// Submit compiles the session and starts the processing run.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sys.Submit(r.PathValue("uploadId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, snap)
}

// Status returns the live polling snapshot.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sys.Status(r.PathValue("uploadId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, snap)
}

// Cancel stops observing the in-flight run without canceling the job.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Cancel(r.PathValue("uploadId")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondState(w http.ResponseWriter, state State, err error) {
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, state)
}
