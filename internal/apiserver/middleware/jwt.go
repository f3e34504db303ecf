package middleware

import (
	"errors"
	"strings"

	"github.com/amoylab/hireloop/internal/auth/jwt"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtService *jwt.Service, eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			eh.HandleError(c, errorx.ErrUnauthorized)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			eh.HandleError(c, errorx.ErrUnauthorized.WithMessage("Malformed authorization header"))
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				eh.HandleError(c, errorx.ErrTokenExpired)
				return
			}
			eh.HandleError(c, errorx.ErrUnauthorized)
			return
		}

		c.Set(cnst.CtxKeyClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by JWTAuthMiddleware
func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(cnst.CtxKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
