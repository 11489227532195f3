package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type listQuery struct {
		Status   string `form:"status" binding:"omitempty,oneof=Draft Approved"`
		From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
		PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	}

	SetupValidator()

	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		var q listQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("reports query parameter names", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?status=Lost&from=01-02-2025&pageSize=500", nil))

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Code)
		assert.Equal(t, "Validation failed", resp.Message)
		assert.Equal(t, []string{"Must be one of: Draft Approved"}, resp.FieldErrors["status"])
		assert.Equal(t, []string{"Invalid date format"}, resp.FieldErrors["from"])
		assert.Equal(t, []string{"Must be at most 100"}, resp.FieldErrors["pageSize"])
		assert.Len(t, resp.Errors, 3)
	})

	t.Run("valid query passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?status=Draft&from=2025-01-02", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-validator error is a bad request", func(t *testing.T) {
		resp := FormatValidationErrors(errors.New("strconv.ParseInt: invalid syntax"), "req-9")
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Code)
		assert.Equal(t, "req-9", resp.RequestID)
		assert.Empty(t, resp.FieldErrors)
	})
}
