package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahilmalhotra/vidtube/internal/auth"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

const (
	// UserContextKey holds the authenticated *models.User on the gin context.
	UserContextKey = "current_user"

	// AccessTokenCookie is the cookie checked before the Authorization header.
	AccessTokenCookie = "accessToken"
)

// TokenVerifier validates access tokens and extracts their claims.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*auth.AccessClaims, error)
}

// UserResolver loads the account behind a verified token.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// extractToken pulls the access token from the request. The cookie wins
// over the Authorization header so browser sessions are not overridden by
// stale headers.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// RequireAuth validates the access token and attaches the account to the
// request context. Requests without a valid token are rejected with 401
// before reaching the handler.
func RequireAuth(verifier TokenVerifier, resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.APIErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Message:    "unauthorized request",
			})
			c.Abort()
			return
		}

		claims, err := verifier.VerifyAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.APIErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Message:    "invalid access token",
			})
			c.Abort()
			return
		}

		user, err := resolver.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.APIErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Message:    "invalid access token",
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid token is present but lets
// anonymous requests through. Used on public reads that personalize their
// response for signed-in viewers.
func OptionalAuth(verifier TokenVerifier, resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := verifier.VerifyAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		user, err := resolver.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
