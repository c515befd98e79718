package middleware

import (
	"net/http"
	"strings"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware initializes the authentication middleware
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken extracts the token from the authorization header
func extractToken(authHeader string) string {
	// Strip the "Bearer " prefix if present
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// abortUnauthorized rejects the request with a 401 response
func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// authenticate validates the bearer token and stores its claims in the
// context; role restricts access when non-empty
func authenticate(c *gin.Context, role string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header is required")
		return
	}

	tokenString := extractToken(authHeader)
	token, err := jwtService.ValidateToken(tokenString)
	if err != nil {
		abortUnauthorized(c, "Invalid token: "+err.Error())
		return
	}

	if !token.Valid {
		abortUnauthorized(c, "Invalid token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		abortUnauthorized(c, "Invalid token claims")
		return
	}

	tokenRole, _ := claims["role"].(string)
	if role != "" && tokenRole != role {
		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "Insufficient permissions: requires " + role + " role",
			"data":    nil,
		})
		c.Abort()
		return
	}

	c.Set("userID", claims["user_id"])
	c.Set("role", tokenRole)
	c.Set("claims", claims)
	c.Next()
}

// Authentication accepts any authenticated principal
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, "")
	}
}

// AuthenticateUser restricts access to end users
func AuthenticateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, "user")
	}
}

// AuthenticateVendor restricts access to vendors
func AuthenticateVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, "vendor")
	}
}

// ContextUserID returns the authenticated principal's id from the context
func ContextUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	// JWT numeric claims decode as float64
	if id, ok := value.(float64); ok {
		return uint(id), true
	}
	if id, ok := value.(uint); ok {
		return id, true
	}
	return 0, false
}
