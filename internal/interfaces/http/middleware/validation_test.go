package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runBody struct {
	OwnerID string `json:"owner_id" binding:"omitempty,uuid"`
	Month   int    `json:"month" binding:"omitempty,min=1,max=12,required_with=Year"`
	Year    int    `json:"year" binding:"omitempty,min=2000,max=2100,required_with=Month"`
}

func validationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.POST("/run", func(c *gin.Context) {
		var req runBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError(t *testing.T) {
	router := validationRouter()

	t.Run("reports JSON field names", func(t *testing.T) {
		w, resp := postJSON(router, `{"owner_id":"x","month":13,"year":1999}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid UUID format", fields["owner_id"])
		assert.Equal(t, "Must be at most 12", fields["month"])
		assert.Equal(t, "Must be at least 2000", fields["year"])
	})

	t.Run("month without year", func(t *testing.T) {
		w, resp := postJSON(router, `{"month":4}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "month", resp.Error.Details[0].Field)
		assert.Equal(t, "Required together with year", resp.Error.Details[0].Message)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w, resp := postJSON(router, `{"month":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("valid body", func(t *testing.T) {
		w, _ := postJSON(router, `{"month":4,"year":2025}`)
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = postJSON(router, `{}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}
