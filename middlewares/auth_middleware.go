package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

const (
	PrincipalKey = "principal"
	UserIDKey    = "user_id"
	RoleKey      = "role"
	TokenKey     = "token"
)

// Authenticator resolves a raw session token into the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

// AuthMiddleware accepts "Authorization: Bearer <token>" or, failing that, the
// session cookie.
func AuthMiddleware(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, auth, sessionToken(c, cookieName))
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

func authenticate(c *gin.Context, auth Authenticator, token string) {
	principal, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		var unauthorized *services.UnauthorizedError
		if errors.As(err, &unauthorized) {
			utils.AbortWithError(c, http.StatusUnauthorized, err)
			return
		}
		utils.ErrorLogger.WithError(err).Error("Session check failed")
		utils.AbortWithError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	c.Set(PrincipalKey, principal)
	c.Set(UserIDKey, principal.UserID)
	c.Set(RoleKey, principal.Role)
	c.Set(TokenKey, token)
	c.Next()
}

// CurrentPrincipal returns the caller set by the auth middleware, or nil.
func CurrentPrincipal(c *gin.Context) *services.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*services.Principal)
	return p
}

// CurrentToken returns the raw session token of the request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
