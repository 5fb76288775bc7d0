package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/requestdata"
	"github.com/scoutdash/personalization-backend/internal/services"
	"github.com/scoutdash/personalization-backend/internal/types"
)

type PersonalizationHandler struct {
	log         *logger.Logger
	personalSvc services.PersonalizationService
	recStateSvc services.RecommendationStateService
}

func NewPersonalizationHandler(log *logger.Logger, personalSvc services.PersonalizationService, recStateSvc services.RecommendationStateService) *PersonalizationHandler {
	return &PersonalizationHandler{
		log:         log.With("handler", "PersonalizationHandler"),
		personalSvc: personalSvc,
		recStateSvc: recStateSvc,
	}
}

// GET /api/personalization/workspace?dismissed=rec_a,rec_b
func (h *PersonalizationHandler) GetWorkspace(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("request identity missing"))
		return
	}

	opts := services.WorkspaceOptions{}
	if raw := strings.TrimSpace(c.Query("dismissed")); raw != "" {
		opts.DismissedIDs = strings.Split(raw, ",")
	}

	workspace, err := h.personalSvc.GetPersonalizedWorkspace(c.Request.Context(), rd.UserID, rd.TenantID, opts)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "workspace_failed", err)
		return
	}
	RespondOK(c, workspace)
}

// POST /api/personalization/track
// { type, target, context, duration, result }
func (h *PersonalizationHandler) TrackAction(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("request identity missing"))
		return
	}

	var action types.UserAction
	if err := c.ShouldBindJSON(&action); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.personalSvc.TrackUserAction(c.Request.Context(), rd.UserID, action); err != nil {
		RespondError(c, http.StatusInternalServerError, "track_failed", err)
		return
	}
	c.Status(http.StatusAccepted)
}

// POST /api/personalization/recommendations/:id/state
// { state: "applied" | "dismissed" }
func (h *PersonalizationHandler) SetRecommendationState(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("request identity missing"))
		return
	}

	recommendationID := strings.TrimSpace(c.Param("id"))
	if recommendationID == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("recommendation id required"))
		return
	}

	var body struct {
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(body.State)) {
	case "applied":
		err = h.recStateSvc.MarkApplied(c.Request.Context(), rd.UserID, recommendationID)
	case "dismissed":
		err = h.recStateSvc.MarkDismissed(c.Request.Context(), rd.UserID, recommendationID)
	default:
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("state must be applied or dismissed"))
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "state_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
