package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/api/handler"
	"github.com/facecheck/attendance-api/internal/core/domain"
)

// TokenQueryParam carries the JWT for clients that cannot set headers,
// such as browser websockets.
const TokenQueryParam = "access_token"

// Auth validates the JWT and injects claims into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return unauthorized("Invalid or expired token")
			}

			id, _ := claims["id"].(string)
			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)
			c.Set(handler.CtxAdminID, id)
			c.Set(handler.CtxEmail, email)
			c.Set(handler.CtxRole, role)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if q := c.QueryParam(TokenQueryParam); q != "" {
			return q, nil
		}
		return "", unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", unauthorized("Invalid authorization header")
	}
	return parts[1], nil
}

func unauthorized(msg string) error {
	return domain.NewError(domain.KindUnauthorized, msg, nil)
}
