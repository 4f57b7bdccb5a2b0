package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alxtravel/pkg/utils"
)

const UserIDKey = "user_id"

func JWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// CurrentUserID returns the authenticated account id, or 0 outside JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}
