package middleware

import (
	"net/http"
	"strings"

	"flavoradmin/internal/repository"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireAuth for downstream handlers
const (
	ContextUserID = "userID"
	ContextRoleID = "roleID"
)

// Guard authenticates bearer tokens and authorizes permission codes.
// It is constructed once with its dependencies; no package-level state.
type Guard struct {
	secret []byte
	perms  repository.PermissionRepository
}

func NewGuard(secret []byte, perms repository.PermissionRepository) *Guard {
	return &Guard{secret: secret, perms: perms}
}

// RequireAuth validates the bearer token and attaches the decoded identity
// (user id and role id) to the request context. Missing, malformed, expired
// or badly signed tokens are all rejected with 401.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return g.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		userID, okUser := claimUint(claims, "sub")
		roleID, okRole := claimUint(claims, "role_id")
		if !okUser || !okRole {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRoleID, roleID)
		c.Next()
	}
}

// RequirePermission checks that the caller holds every one of the required
// permission codes. The effective set (role grants plus direct user grants)
// is re-read from the database on each request, so revoking a grant denies
// the very next call. Must be chained after RequireAuth.
func (g *Guard) RequirePermission(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okUser := CurrentUserID(c)
		roleID, okRole := CurrentRoleID(c)
		if !okUser || !okRole {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: no identity in request context"))
			return
		}

		codes, err := g.perms.EffectiveCodes(c.Request.Context(), userID, roleID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
			return
		}

		if !HasAll(codes, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}

// HasAll reports whether every required code is present in granted.
// Pure membership check over the effective permission set.
func HasAll(granted []string, required []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, code := range granted {
		set[code] = struct{}{}
	}
	for _, code := range required {
		if _, ok := set[code]; !ok {
			return false
		}
	}
	return true
}

// CurrentUserID returns the authenticated user id set by RequireAuth
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentRoleID returns the authenticated role id set by RequireAuth
func CurrentRoleID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextRoleID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// claimUint extracts a numeric claim. JSON numbers decode as float64.
func claimUint(claims jwt.MapClaims, key string) (uint, bool) {
	switch v := claims[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
