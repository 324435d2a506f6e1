package middleware

import (
	"net/http"
	"os"
	"strings"

	"safety-inspection-api/config"
	"safety-inspection-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Get claims
		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check if user still exists
		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roleID", claims.RoleID)
		c.Set("userName", user.FullName())

		c.Next()
	}
}

// RequireRole checks if user has specific role
func RequireRole(roleIDs ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoleID, exists := c.Get("roleID")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		// Check if user's role is in allowed roles
		userRole := userRoleID.(int)
		allowed := false
		for _, roleID := range roleIDs {
			if userRole == roleID {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireReviewer restricts a route to supervisors and admins.
func RequireReviewer() gin.HandlerFunc {
	return RequireRole(models.RoleSupervisor, models.RoleAdmin)
}

// CurrentUserID returns the authenticated user id from the context.
func CurrentUserID(c *gin.Context) int {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

// CurrentRoleID returns the authenticated role id from the context.
func CurrentRoleID(c *gin.Context) int {
	if v, exists := c.Get("roleID"); exists {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

// CurrentUserName returns the authenticated display name.
func CurrentUserName(c *gin.Context) string {
	if v, exists := c.Get("userName"); exists {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}

// IsReviewer reports whether the caller may apply review transitions.
func IsReviewer(c *gin.Context) bool {
	role := CurrentRoleID(c)
	return role == models.RoleSupervisor || role == models.RoleAdmin
}
