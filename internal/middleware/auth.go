package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seikotsu/booking-api/internal/handler"
	"github.com/seikotsu/booking-api/internal/model"
)

type TokenValidator interface {
	ValidateToken(token string) (*model.TokenClaims, error)
}

type AuthMiddleware struct {
	validator TokenValidator
	// adminEmails is the lowercase allow-list from configuration.
	adminEmails map[string]struct{}
}

func NewAuthMiddleware(validator TokenValidator, adminEmails []string) *AuthMiddleware {
	allow := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		allow[strings.ToLower(e)] = struct{}{}
	}
	return &AuthMiddleware{validator: validator, adminEmails: allow}
}

// Authenticate verifies the bearer token and sets the user identity in
// the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(handler.ContextUserID, claims.UserID.String())
		c.Set(handler.ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin allows only users whose email is on the configured
// allow-list. Must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(c.GetString(handler.ContextUserEmail))
		if _, ok := m.adminEmails[email]; !ok {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) IsAdmin(email string) bool {
	_, ok := m.adminEmails[strings.ToLower(email)]
	return ok
}
