package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
)

func newAdminTestRouter(auth AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	admin := router.Group("/admin", auth.AdminRequired())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAdminRequired_RejectsMissingToken(t *testing.T) {
	router := newAdminTestRouter(AuthConfig{AdminToken: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired_RejectsWrongToken(t *testing.T) {
	router := newAdminTestRouter(AuthConfig{AdminToken: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("X-Admin-Token", "nope")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired_AcceptsValidToken(t *testing.T) {
	router := newAdminTestRouter(AuthConfig{AdminToken: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("X-Admin-Token", "secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequired_EmptyConfiguredTokenNeverGrantsAdmin(t *testing.T) {
	router := newAdminTestRouter(AuthConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("X-Admin-Token", "")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActor_ResolvesRoleAndSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := AuthConfig{AdminToken: "secret"}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-User-ID", "user-1")

	actor := auth.Actor(c)
	assert.Equal(t, "user-1", actor.ID)
	assert.Equal(t, domain.RoleCustomer, actor.Role)

	c.Request.Header.Set("X-Admin-Token", "secret")
	actor = auth.Actor(c)
	assert.Equal(t, domain.RoleAdmin, actor.Role)
}
