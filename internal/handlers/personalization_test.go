package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/requestdata"
	"github.com/scoutdash/personalization-backend/internal/services"
	"github.com/scoutdash/personalization-backend/internal/types"
)

type fakePersonalizationService struct {
	lastOpts   services.WorkspaceOptions
	lastAction types.UserAction
	trackCalls int
}

func (f *fakePersonalizationService) GetPersonalizedWorkspace(ctx context.Context, userID, tenantID uuid.UUID, opts services.WorkspaceOptions) (*types.PersonalizedWorkspace, error) {
	f.lastOpts = opts
	return &types.PersonalizedWorkspace{
		Layout:          types.WorkspaceLayout{Density: "comfortable", Theme: "auto"},
		Widgets:         []types.Widget{},
		Shortcuts:       []types.Shortcut{},
		Recommendations: []types.PersonalizationRecommendation{},
	}, nil
}

func (f *fakePersonalizationService) TrackUserAction(ctx context.Context, userID uuid.UUID, action types.UserAction) error {
	f.trackCalls++
	f.lastAction = action
	return nil
}

type fakeRecStateService struct {
	applied   []string
	dismissed []string
}

func (f *fakeRecStateService) MarkApplied(ctx context.Context, userID uuid.UUID, recommendationID string) error {
	f.applied = append(f.applied, recommendationID)
	return nil
}

func (f *fakeRecStateService) MarkDismissed(ctx context.Context, userID uuid.UUID, recommendationID string) error {
	f.dismissed = append(f.dismissed, recommendationID)
	return nil
}

func handlerLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// identity injects RequestData the way AuthMiddleware would.
func identity(userID, tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID:   userID,
			TenantID: tenantID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func TestGetWorkspaceHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakePersonalizationService{}
	h := NewPersonalizationHandler(handlerLogger(t), svc, &fakeRecStateService{})

	router := gin.New()
	router.GET("/workspace", identity(uuid.New(), uuid.New()), h.GetWorkspace)

	req := httptest.NewRequest(http.MethodGet, "/workspace?dismissed=rec_guided_tour,rec_ai_insights", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	want := []string{"rec_guided_tour", "rec_ai_insights"}
	if len(svc.lastOpts.DismissedIDs) != 2 || svc.lastOpts.DismissedIDs[0] != want[0] || svc.lastOpts.DismissedIDs[1] != want[1] {
		t.Fatalf("dismissed ids not forwarded: %v", svc.lastOpts.DismissedIDs)
	}

	var body types.PersonalizedWorkspace
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Layout.Density != "comfortable" {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestGetWorkspaceHandlerWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPersonalizationHandler(handlerLogger(t), &fakePersonalizationService{}, &fakeRecStateService{})

	router := gin.New()
	router.GET("/workspace", h.GetWorkspace)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workspace", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTrackActionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakePersonalizationService{}
	h := NewPersonalizationHandler(handlerLogger(t), svc, &fakeRecStateService{})

	router := gin.New()
	router.POST("/track", identity(uuid.New(), uuid.New()), h.TrackAction)

	payload := `{"type":"search","target":"global","context":{"query":"q3"},"duration":2.5,"result":"success"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/track", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.trackCalls != 1 || svc.lastAction.Type != "search" {
		t.Fatalf("action not forwarded: calls=%d action=%+v", svc.trackCalls, svc.lastAction)
	}
	if svc.lastAction.Duration == nil || *svc.lastAction.Duration != 2.5 {
		t.Fatalf("duration lost: %+v", svc.lastAction.Duration)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/track", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestSetRecommendationStateHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recSvc := &fakeRecStateService{}
	h := NewPersonalizationHandler(handlerLogger(t), &fakePersonalizationService{}, recSvc)

	router := gin.New()
	router.POST("/recommendations/:id/state", identity(uuid.New(), uuid.New()), h.SetRecommendationState)

	post := func(id, state string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/recommendations/"+id+"/state", bytes.NewBufferString(`{"state":"`+state+`"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := post("rec_guided_tour", "dismissed"); rec.Code != http.StatusNoContent {
		t.Fatalf("dismiss: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := post("rec_saved_searches", "Applied"); rec.Code != http.StatusNoContent {
		t.Fatalf("apply (mixed case): status = %d", rec.Code)
	}
	if rec := post("rec_guided_tour", "snoozed"); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid state: status = %d, want 400", rec.Code)
	}

	if len(recSvc.dismissed) != 1 || recSvc.dismissed[0] != "rec_guided_tour" {
		t.Fatalf("dismissals not recorded: %v", recSvc.dismissed)
	}
	if len(recSvc.applied) != 1 || recSvc.applied[0] != "rec_saved_searches" {
		t.Fatalf("applies not recorded: %v", recSvc.applied)
	}
}
