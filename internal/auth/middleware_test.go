package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(secret))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetOwnerID(c.Request.Context()))
	})
	return r
}

func TestMiddleware_AcceptsValidToken(t *testing.T) {
	token, err := IssueToken(secret, "owner-1", "user-7", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner-1", w.Body.String())
}

func TestMiddleware_QueryToken(t *testing.T) {
	token, err := IssueToken(secret, "owner-2", "", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami?token="+token, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner-2", w.Body.String())
}

func TestMiddleware_Rejects(t *testing.T) {
	expired, err := IssueToken(secret, "owner-1", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", "owner-1", "", time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "Bearer not-a-jwt",
		"expired": "Bearer " + expired,
		"foreign": "Bearer " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			router().ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
