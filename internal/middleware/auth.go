package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/utils"
	"github.com/huangang/quill/pkg/response"
)

const (
	ContextUserID = "user_id"

	AccessTokenCookie = "accessToken"
)

// AccessTokenVerifier is the part of the token service the middleware needs.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (*utils.Claims, error)
}

// AuthRequired accepts a request carrying a valid access token in the
// accessToken cookie or, failing that, an "Authorization: Bearer" header.
func AuthRequired(verifier AccessTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessTokenFrom(c)
		if token == "" {
			response.Unauthorized(c, "unauthorized")
			return
		}

		claims, err := verifier.VerifyAccessToken(token)
		if err != nil {
			response.Unauthorized(c, "unauthorized")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

func accessTokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
