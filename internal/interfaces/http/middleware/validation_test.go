package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrefresher/backend/internal/domain/catalog"
	"github.com/techrefresher/backend/internal/interfaces/http/dto"
)

type categoryPayload struct {
	Category catalog.Category `json:"category" binding:"required,itemcategory"`
	Name     string           `json:"name" binding:"required,max=200"`
}

func newValidationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.POST("/items", func(c *gin.Context) {
		var payload categoryPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", "", FormatValidationErrors(err)))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	})
	return router
}

func TestSetupValidator_ValidCategory(t *testing.T) {
	router := newValidationRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/items",
		strings.NewReader(`{"category":"PART","name":"iPhone 12 Screen"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSetupValidator_UnknownCategory(t *testing.T) {
	router := newValidationRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/items",
		strings.NewReader(`{"category":"GADGET","name":"Widget"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")
	assert.Contains(t, rec.Body.String(), "valid catalog category")
}

func TestSetupValidator_FieldNamesFromJSONTag(t *testing.T) {
	router := newValidationRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/items",
		strings.NewReader(`{"category":"PART"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name"`)
	assert.Contains(t, rec.Body.String(), "required")
	assert.NotContains(t, rec.Body.String(), `"Name"`)
}
