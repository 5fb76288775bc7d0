package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/requestdata"
	"github.com/scoutdash/personalization-backend/internal/services"
)

type PreferenceHandler struct {
	log     *logger.Logger
	prefSvc services.PreferenceService
}

func NewPreferenceHandler(log *logger.Logger, prefSvc services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		log:     log.With("handler", "PreferenceHandler"),
		prefSvc: prefSvc,
	}
}

// GET /api/personalization/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("request identity missing"))
		return
	}

	prefs, err := h.prefSvc.GetOrCreate(c.Request.Context(), rd.UserID, rd.TenantID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "preferences_failed", err)
		return
	}
	RespondOK(c, prefs)
}

// PATCH /api/personalization/preferences
// Body carries any subset of the preference groups; omitted groups keep
// their stored values.
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("request identity missing"))
		return
	}

	var update services.PreferenceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	prefs, err := h.prefSvc.Update(c.Request.Context(), rd.UserID, rd.TenantID, update)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "preferences_failed", err)
		return
	}
	RespondOK(c, prefs)
}
