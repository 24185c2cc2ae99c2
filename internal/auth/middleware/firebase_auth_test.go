package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	serpauth "github.com/serp-db/serp-backend/internal/auth"
)

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	uid, ok := f[token]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &auth.Token{UID: uid}, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(FirebaseAuthMiddleware(fakeVerifier{"good": "uid-1"}))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, serpauth.Subject(c))
	})
	return router
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "uid-1"},
		{"no token", "", http.StatusOK, ""},
		{"not bearer", "Basic good", http.StatusOK, ""},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			newRouter().ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, tc.wantBody, rr.Body.String())
			}
		})
	}
}
