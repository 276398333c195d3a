package middleware

import (
	"errors"
	"strings"
	"time"

	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIDKey = "user_id"

// Claims 的 Subject 為使用者 uuid
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken 簽發 HS256 token，主要給測試與本機開發使用
func GenerateToken(secret string, userID uuid.UUID, ttl time.Duration, now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return userID, nil
}

// JWTAuth 驗證 Authorization: Bearer xxx，將使用者 id 放進 gin context
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abortWithKind(c, apperrors.KindUnauthorized)
			return
		}

		userID, err := parseToken(secret, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			abortWithKind(c, apperrors.KindUnauthorized)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID 取出 JWTAuth 放入的使用者 id
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortWithKind(c *gin.Context, kind string) {
	c.AbortWithStatusJSON(apperrors.HTTPStatus(kind), gin.H{
		"error":   kind,
		"message": apperrors.Message(kind),
	})
}
