package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONAndAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "rid-1") })
	r.GET("/ok", func(c *gin.Context) { JSON(c, 0, gin.H{"status": "ok"}, "healthy") })
	r.GET("/limited", func(c *gin.Context) {
		Abort(c, http.StatusTooManyRequests, "rate limit exceeded")
		c.String(http.StatusOK, "not reached")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "rid-1", env.RequestID)
	assert.Equal(t, "healthy", env.Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotContains(t, w.Body.String(), "not reached")
	assert.Contains(t, w.Body.String(), `"success":false`)
}
