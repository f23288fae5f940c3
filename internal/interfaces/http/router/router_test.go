package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) {
	c.String(http.StatusOK, c.FullPath())
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	reconcile := NewDomainGroup("reconcile", "/reconcile").
		GET("/status", ok).
		POST("/:job", ok)

	r := NewRouter(engine).Register(reconcile)
	assert.Len(t, r.registrars, 1)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/reconcile/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/reconcile/status", w.Body.String())

	w = serve(engine, http.MethodPost, "/api/v1/reconcile/debts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/reconcile/:job", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/reconcile/status").Code)
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	var order []string

	dg := NewDomainGroup("reconcile", "/reconcile").Use(func(c *gin.Context) {
		order = append(order, "group")
		c.Next()
	})
	dg.Group("runs", "/runs").GET("", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, "reconcile", dg.Name())
	assert.Equal(t, "/reconcile", dg.Prefix())

	NewRouter(engine).Register(dg).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/reconcile/runs")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"group", "handler"}, order)
}
