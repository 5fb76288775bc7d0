package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authRouter(t *testing.T) (*gin.Engine, *requestdata.RequestData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	var captured requestdata.RequestData

	router := gin.New()
	am := NewAuthMiddleware(log, testSecret)
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
			captured = *rd
		}
		c.Status(http.StatusNoContent)
	})
	return router, &captured
}

func TestRequireAuth(t *testing.T) {
	userID, tenantID := uuid.New(), uuid.New()

	valid := func(t *testing.T) string {
		return signToken(t, testSecret, jwt.MapClaims{
			"user_id":   userID.String(),
			"tenant_id": tenantID.String(),
			"exp":       time.Now().Add(time.Hour).Unix(),
		})
	}

	cases := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{
			name:       "valid_bearer_header",
			header:     "Bearer " + valid(t),
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "valid_query_token",
			query:      valid(t),
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing_token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed_header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong_signature",
			header: "Bearer " + signToken(t, "other-secret", jwt.MapClaims{
				"user_id":   userID.String(),
				"tenant_id": tenantID.String(),
				"exp":       time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired_token",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"user_id":   userID.String(),
				"tenant_id": tenantID.String(),
				"exp":       time.Now().Add(-time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "missing_tenant_claim",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"user_id": userID.String(),
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, captured := authRouter(t)

			url := "/protected"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus == http.StatusNoContent {
				if captured.UserID != userID || captured.TenantID != tenantID {
					t.Fatalf("request data not populated: %+v", captured)
				}
			}
		})
	}
}
