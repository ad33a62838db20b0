package middleware

import (
	"errors"
	"strings"

	"market/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// 公開ルート用。tokenがあれば検証してclaimsを積み、無ければ素通しする。
// 壊れたtokenも未ログイン扱い（公開ルートを401にしない）。
func OptionalAuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return next(c)
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return next(c)
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return next(c)
			}

			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return next(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return next(c)
			}

			userID, err := parseID(claims["sub"])
			if err != nil || userID <= 0 {
				return next(c)
			}
			profileID, err := parseID(claims["profile_id"])
			if err != nil || profileID <= 0 {
				return next(c)
			}
			role, ok := claims["role"].(string)
			if !ok || role == "" {
				return next(c)
			}

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxProfileIDKey, profileID)
			c.Set(CtxUserRoleKey, role)

			return next(c)
		}
	}
}
