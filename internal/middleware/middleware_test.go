package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/auth"
	"github.com/yigit/programhub/internal/pkg/metrics"
	"github.com/yigit/programhub/internal/pkg/ratelimiter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var body struct {
		Success bool             `json:"success"`
		Error   *dto.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	if body.Success || body.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return body.Error
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", fmt.Errorf("%w: bad", apperrors.ErrValidationFailed), 400, dto.ErrorCodeValidationFailed},
		{"not found", apperrors.ErrOfferingNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"transition", fmt.Errorf("%w: 3 to 2", apperrors.ErrInvalidTransition), 422, dto.ErrorCodeInvalidTransition},
		{"conflict", apperrors.ErrCourseInUse, 409, dto.ErrorCodeConflict},
		{"duplicate email", fmt.Errorf("create: %w", apperrors.ErrEmailAlreadyExists), 409, dto.ErrorCodeResourceAlreadyExists},
		{"storage", fmt.Errorf("%w: pool closed", apperrors.ErrStorageFailure), 503, dto.ErrorCodeStorageUnavailable},
		{"forbidden", apperrors.NewForbiddenError("no"), 403, dto.ErrorCodeForbidden},
		{"credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{"expired", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{"revoked", apperrors.ErrTokenRevoked, 401, dto.ErrorCodeInvalidToken},
		{"unknown", errors.New("boom"), 500, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := decodeError(t, rec); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestHandleAPIError_CustomErrorContext(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	err := apperrors.NewCustomError(apperrors.ErrInvalidTransition, "cannot move application from COMPLETED to IN_PROGRESS").
		WithDetails(map[string]interface{}{"from": "COMPLETED", "to": "IN_PROGRESS"})
	HandleAPIError(c, fmt.Errorf("advance: %w", err))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	detail := decodeError(t, rec)
	details, ok := detail.Details.(map[string]interface{})
	if !ok || details["from"] != "COMPLETED" || details["to"] != "IN_PROGRESS" {
		t.Errorf("details = %#v, want from/to context", detail.Details)
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)
	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrConflict, "taken").WithCode("RES_999"))
	if got := decodeError(t, rec); got.Code != "RES_999" {
		t.Errorf("code = %s, want custom code", got.Code)
	}
}

type fakeRevocation struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocation) Revoke(context.Context, string, time.Duration) error { return nil }

func (f *fakeRevocation) IsRevoked(_ context.Context, id string) (bool, error) {
	return f.revoked[id], f.err
}

type fakeStaff struct {
	err error
}

func (f fakeStaff) ValidateApprovedStaff(context.Context, uuid.UUID) error { return f.err }

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "mw-secret", AccessTokenExp: time.Hour, TokenIssuer: "mw-test"})
}

func protectedRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{m.JWTAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"subject": identity.SubjectUUID.String()})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtSvc := newJWT()
	revocation := &fakeRevocation{revoked: map[string]bool{}}
	m := NewAuthMiddleware(jwtSvc, revocation, fakeStaff{})
	router := protectedRouter(m)

	subject := uuid.New()
	tok, err := jwtSvc.GenerateAccessToken(auth.Identity{SubjectUUID: subject, PersonUUID: uuid.New(), Role: models.RoleParticipant})
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	revokedTok, _ := jwtSvc.GenerateAccessToken(auth.Identity{SubjectUUID: uuid.New(), PersonUUID: uuid.New(), Role: models.RoleParticipant})
	revocation.revoked[revokedTok.TokenID] = true

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", 401},
		{"garbage", "Bearer nope", 401},
		{"wrong signature", "Bearer " + tok.Token + "x", 401},
		{"revoked", "Bearer " + revokedTok.Token, 401},
		{"missing scheme", tok.Token, 401},
		{"valid", "Bearer " + tok.Token, 200},
		{"quoted", `"Bearer ` + tok.Token + `"`, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == 200 {
				var body map[string]string
				_ = json.Unmarshal(rec.Body.Bytes(), &body)
				if body["subject"] != subject.String() {
					t.Errorf("subject = %q", body["subject"])
				}
			}
		})
	}
}

func TestJWTAuth_RevokedTokenReported(t *testing.T) {
	jwtSvc := newJWT()
	tok, _ := jwtSvc.GenerateAccessToken(auth.Identity{SubjectUUID: uuid.New(), PersonUUID: uuid.New(), Role: models.RoleParticipant})
	revocation := &fakeRevocation{revoked: map[string]bool{tok.TokenID: true}}
	m := NewAuthMiddleware(jwtSvc, revocation, fakeStaff{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	protectedRouter(m).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	detail := decodeError(t, rec)
	if detail.Message != "Token revoked" || detail.Details != apperrors.ErrTokenRevoked.Error() {
		t.Errorf("error = %+v, want token revoked", detail)
	}
}

func TestJWTAuth_RevocationStoreDown(t *testing.T) {
	jwtSvc := newJWT()
	m := NewAuthMiddleware(jwtSvc, &fakeRevocation{err: errors.New("redis down")}, fakeStaff{})
	tok, _ := jwtSvc.GenerateAccessToken(auth.Identity{SubjectUUID: uuid.New(), PersonUUID: uuid.New(), Role: models.RoleParticipant})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	protectedRouter(m).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRoleAndStaffGates(t *testing.T) {
	jwtSvc := newJWT()
	manager := models.UserTypeCourseManager
	staffTok, _ := jwtSvc.GenerateAccessToken(auth.Identity{SubjectUUID: uuid.New(), PersonUUID: uuid.New(), Role: models.RoleEmployee, UserType: &manager})
	participantTok, _ := jwtSvc.GenerateAccessToken(auth.Identity{SubjectUUID: uuid.New(), PersonUUID: uuid.New(), Role: models.RoleParticipant})

	tests := []struct {
		name   string
		staff  error
		token  string
		gate   func(*AuthMiddleware) gin.HandlerFunc
		status int
	}{
		{"participant role ok", nil, participantTok.Token, func(m *AuthMiddleware) gin.HandlerFunc { return m.RoleRequired(models.RoleParticipant) }, 200},
		{"staff on participant route", nil, staffTok.Token, func(m *AuthMiddleware) gin.HandlerFunc { return m.RoleRequired(models.RoleParticipant) }, 403},
		{"approved staff", nil, staffTok.Token, (*AuthMiddleware).ApprovedStaffRequired, 200},
		{"participant on staff route", nil, participantTok.Token, (*AuthMiddleware).ApprovedStaffRequired, 403},
		{"approval revoked", apperrors.NewForbiddenError("employee is not approved"), staffTok.Token, (*AuthMiddleware).ApprovedStaffRequired, 403},
		{"storage down", apperrors.ErrStorageFailure, staffTok.Token, (*AuthMiddleware).ApprovedStaffRequired, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(jwtSvc, nil, fakeStaff{err: tt.staff})
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			protectedRouter(m, tt.gate(m)).ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", LoginRateLimit(ratelimiter.New(0.001, 2, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 204 || codes[1] != 204 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/abc", nil))

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/courses/:id", "200")); got != 1 {
		t.Errorf("request counter = %v, want 1", got)
	}
}

func TestUUIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := UUIDParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	id := uuid.New()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil))
	if rec.Code != 200 || rec.Body.String() != id.String() {
		t.Errorf("valid id: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil))
	if rec.Code != 400 {
		t.Errorf("malformed id status = %d", rec.Code)
	}
}
