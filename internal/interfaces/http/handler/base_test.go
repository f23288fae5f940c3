package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{shared.NewDomainError("INVALID_MONTH", "month must be between 1 and 12"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{shared.NewDomainError("INVALID_STATE", "goal already closed"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("request_id", "req-42")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-42", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, nil)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_BindJSON_MalformedBody(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.POST("/", func(c *gin.Context) {
		var req dto.RunJobRequest
		if h.BindJSON(c, &req) {
			c.Status(http.StatusOK)
		}
	})

	// declared length but no bytes
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	req.ContentLength = 3
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
