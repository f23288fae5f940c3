package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMountSwagger(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine)

	w := serve(engine, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/swagger/doc.json")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"/reconcile/{job}"`)
	assert.Contains(t, body, `"/reconcile/status"`)
	assert.Contains(t, body, `"/health"`)
	assert.Contains(t, body, `"basePath": "/api/v1"`)
}

func TestMountSwagger_Guarded(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	})

	w := serve(engine, http.MethodGet, "/swagger/doc.json")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
