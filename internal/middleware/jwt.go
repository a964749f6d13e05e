package middleware

import (
	"net/http"
	"strings"
	"time"

	"dlc-report/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "session_user"

// IssueToken signs a session token for u valid for ttl.
func IssueToken(secret []byte, u model.User, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  u.ID,
		"name": u.Username,
		"role": string(u.Role),
		"team": u.TeamID,
		"lga":  u.LGAID,
		"exp":  time.Now().Add(ttl).Unix(),
	}).SignedString(secret)
}

func JWTAuth(secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		u := model.User{
			ID:       claimString(claims, "uid"),
			Username: claimString(claims, "name"),
			Role:     model.Role(claimString(claims, "role")),
			TeamID:   claimString(claims, "team"),
			LGAID:    claimString(claims, "lga"),
		}
		if u.Role != model.RoleAdmin && u.Role != model.RoleTeamLeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userKey, u)

		// renew when less than a day remains
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				if newToken, err := IssueToken(secret, u, ttl); err == nil {
					c.Header("X-New-Token", newToken)
				}
			}
		}

		c.Next()
	}
}

// RequireRole rejects sessions whose role differs from role. It must run after JWTAuth.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the session set by JWTAuth, or the zero User.
func CurrentUser(c *gin.Context) model.User {
	if v, ok := c.Get(userKey); ok {
		return v.(model.User)
	}
	return model.User{}
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
