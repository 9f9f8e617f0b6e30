package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

type Claims struct {
	UserID  string `json:"user_id"`
	OwnerID string `json:"owner_id"`
	Role    string `json:"role"`
	jwt.StandardClaims
}

// owner resolves the tenant: an explicit owner_id, then user_id, then sub.
func (c *Claims) owner() string {
	switch {
	case c.OwnerID != "":
		return c.OwnerID
	case c.UserID != "":
		return c.UserID
	}
	return c.Subject
}

// IssueToken signs an HS256 token for ownerID. Used by cmd/token to mint tokens for
// local and staging environments.
func IssueToken(secret, ownerID, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:  userID,
		OwnerID: ownerID,
		StandardClaims: jwt.StandardClaims{
			Subject:   ownerID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	})
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.owner() == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token and stores the caller
// on the request context. Browsers cannot set headers on WebSocket upgrades, so a
// "token" query parameter is accepted as well.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := WithUser(c.Request.Context(), &UserContext{
			OwnerID: claims.owner(),
			UserID:  claims.UserID,
			Role:    claims.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
