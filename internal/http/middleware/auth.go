package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const SubjectKey = "subject"

// TokenParser returns the subject of a valid bearer token.
type TokenParser interface {
	ParseJWT(token string) (string, error)
}

// JWT rejects requests without a valid "Authorization: Bearer" token.
func JWT(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		subject, err := parser.ParseJWT(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}
