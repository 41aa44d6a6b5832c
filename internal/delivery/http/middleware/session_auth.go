package middleware

import (
	"net/http"
	"strings"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware requires a Bearer session token issued for the
// session named by the :id path parameter
func SessionAuthMiddleware(signer *auth.SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Session token required", nil)
			c.Abort()
			return
		}

		sessionID, err := signer.Verify(tokenString)
		if err != nil || sessionID != c.Param("id") {
			response.Error(c, http.StatusUnauthorized, "Invalid session token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeySessionID), sessionID)
		c.Next()
	}
}
