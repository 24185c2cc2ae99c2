package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExternalID(t *testing.T) {
	assert.Equal(t, "118170320184413952065", ExternalID("google-oauth2|118170320184413952065"))
	assert.Equal(t, "abc", ExternalID("auth0|x|abc"))
	assert.Equal(t, "plain", ExternalID(" plain "))
	assert.Equal(t, "", ExternalID("trailing|"))
	assert.Equal(t, "", ExternalID(""))
}

func TestOptionalUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(OptionalUser())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, Subject(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", "google-oauth2|42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "google-oauth2|42", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, "", rr.Body.String())
}
