package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workshop-ot-api/internal/models"
	appErrors "github.com/noah-isme/workshop-ot-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	if v.claims == nil {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newAuthRouter(validator tokenValidator, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(validator))
	router.GET("/", RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestJWTMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		claims *models.JWTClaims
		want   int
	}{
		{"missing header", "", &models.JWTClaims{UserID: "u", Role: models.RoleAdmin}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &models.JWTClaims{UserID: "u", Role: models.RoleAdmin}, http.StatusUnauthorized},
		{"empty bearer", "Bearer   ", &models.JWTClaims{UserID: "u", Role: models.RoleAdmin}, http.StatusUnauthorized},
		{"invalid token", "Bearer abc", nil, http.StatusUnauthorized},
		{"valid token", "bearer abc", &models.JWTClaims{UserID: "u", Role: models.RoleAdmin}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAuthRouter(&validatorStub{claims: tc.claims}, models.RoleAdmin)
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(recorder, req)
			if recorder.Code != tc.want {
				t.Fatalf("unexpected status: got %d want %d", recorder.Code, tc.want)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	validator := &validatorStub{claims: &models.JWTClaims{UserID: "tech-1", Role: models.RoleTechnician}}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	newAuthRouter(validator, models.RoleAdmin).ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status for technician on admin route: %d", recorder.Code)
	}
	if validator.token != "token-1" {
		t.Fatalf("token not forwarded to validator: %q", validator.token)
	}

	recorder = httptest.NewRecorder()
	newAuthRouter(validator, models.RoleAdmin, models.RoleTechnician).ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status for allowed role: %d", recorder.Code)
	}
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
