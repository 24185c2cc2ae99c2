package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxSubject = "auth_subject"
)

// Subject returns the opaque identity set by one of the auth middlewares, or "".
func Subject(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxSubject))
}

// ExternalID strips any provider prefix from a subject: "google-oauth2|1181" becomes "1181".
// Creator records store only the part after the last '|'.
func ExternalID(subject string) string {
	subject = strings.TrimSpace(subject)
	if i := strings.LastIndex(subject, "|"); i >= 0 {
		return subject[i+1:]
	}
	return subject
}
