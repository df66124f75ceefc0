package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
)

func TestMapError(t *testing.T) {
	status, msg := mapError(&types.RouterUnavailableError{Err: errors.New("timeout")})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, msg, "retry")

	status, _ = mapError(types.NewUnsafeQueryError(types.SpecialistSalesforce, errors.New("DELETE")))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = mapError(types.NewUpstreamUnavailableError(types.SpecialistDomo, errors.New("down")))
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = mapError(errors.New("anything else"))
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestUserFromHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/question", nil)
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	t.Run("explicit username header wins", func(t *testing.T) {
		c := newCtx(map[string]string{
			"X-User-Name":   "dana",
			"Authorization": "Bearer whatever",
		})
		assert.Equal(t, "dana", UserFromHeaders(c))
	})

	t.Run("falls back to jwt claims", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "Dana Reyes"})
		tokenString, err := token.SignedString([]byte("test-secret"))
		assert.NoError(t, err)

		c := newCtx(map[string]string{"Authorization": "Bearer " + tokenString})
		assert.Equal(t, "Dana Reyes", UserFromHeaders(c))
	})

	t.Run("no identity", func(t *testing.T) {
		assert.Equal(t, "unknown", UserFromHeaders(newCtx(nil)))
	})
}
