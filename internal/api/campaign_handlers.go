package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/phishing-trainer/internal/domain"
	"github.com/ignite/phishing-trainer/internal/pkg/logger"
	"github.com/ignite/phishing-trainer/internal/service/campaign"
	"github.com/ignite/phishing-trainer/internal/templates"
)

// ListScenarios returns the available pretext types.
func (h *Handlers) ListScenarios(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"scenarios": templates.ScenarioTypes()})
}

// CreateCampaign creates a new draft campaign with signed tracking links.
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaign.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.campaigns.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, campaign.ErrNoTargets) {
			respondError(w, http.StatusBadRequest, "at least one target is required")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// ListCampaigns returns all campaigns, newest first.
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	list, err := h.campaigns.List(r.Context())
	if err != nil {
		logger.Error("listing campaigns", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"campaigns": list, "count": len(list)})
}

// GetCampaign returns one campaign with its targets and event log.
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondCampaignError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// RenameCampaign updates the campaign's display name.
func (h *Handlers) RenameCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.campaigns.Rename(r.Context(), chi.URLParam(r, "id"), body.Name); err != nil {
		h.respondCampaignError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"name": body.Name})
}

// DeleteCampaign removes a campaign and all its data.
func (h *Handlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondCampaignError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateCampaignStatus sets the campaign-level lifecycle status.
func (h *Handlers) UpdateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.campaigns.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.CampaignStatus(body.Status))
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}

// CloneCampaign copies a campaign into a new draft with fresh links.
func (h *Handlers) CloneCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	// Body is optional; an empty name gets the "(Clone)" suffix.
	_ = json.NewDecoder(r.Body).Decode(&body)

	clone, err := h.campaigns.Clone(r.Context(), chi.URLParam(r, "id"), body.Name)
	if err != nil {
		h.respondCampaignError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, clone)
}

// CampaignStatistics returns counts and derived rates for a campaign.
func (h *Handlers) CampaignStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.campaigns.Statistics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondCampaignError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// PreviewEmail renders the simulation email for one target without
// sending anything.
func (h *Handlers) PreviewEmail(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondCampaignError(w, err)
		return
	}
	t := c.Target(chi.URLParam(r, "rid"))
	if t == nil {
		respondError(w, http.StatusNotFound, "target not found")
		return
	}
	email, err := h.renderer.RenderEmail(c, t)
	if err != nil {
		logger.Error("rendering preview", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "render failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"subject":   email.Subject,
		"body_html": email.HTML,
	})
}

// MarkTargetSent records a delivery reported by the sending layer.
func (h *Handlers) MarkTargetSent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MessageID string `json:"message_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	err := h.campaigns.MarkSent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "rid"), body.MessageID)
	h.respondTargetMutation(w, err, string(domain.TargetSent))
}

// MarkTargetBounced records a bounce reported by the sending layer.
func (h *Handlers) MarkTargetBounced(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	err := h.campaigns.MarkBounced(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "rid"), body.Reason)
	h.respondTargetMutation(w, err, string(domain.TargetBounced))
}

// MarkTargetFailed records a send failure reported by the sending layer.
func (h *Handlers) MarkTargetFailed(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	err := h.campaigns.MarkFailed(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "rid"), body.Reason)
	h.respondTargetMutation(w, err, string(domain.TargetFailed))
}

func (h *Handlers) respondTargetMutation(w http.ResponseWriter, err error, status string) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"status": status})
	case errors.Is(err, campaign.ErrNotFound), errors.Is(err, campaign.ErrTargetNotFound):
		h.respondCampaignError(w, err)
	case errors.Is(err, campaign.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("target mutation", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handlers) respondCampaignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaign.ErrNotFound):
		respondError(w, http.StatusNotFound, "campaign not found")
	case errors.Is(err, campaign.ErrTargetNotFound):
		respondError(w, http.StatusNotFound, "target not found")
	default:
		logger.Error("campaign request", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
