package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"taskflow/internal/auth"
	"taskflow/internal/service"
)

const contextKeyActor = "actor"

// CurrentActor resolves the echo-jwt parsed token into an Actor, rejecting
// tokens revoked by logout. Mount after the JWT middleware on secured routes.
func CurrentActor(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if authService.IsTokenRevoked(c.Request().Context(), claims.ID) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
			c.Set(contextKeyActor, claims)
			return next(c)
		}
	}
}

// actorFromContext returns the authenticated caller's claims and Actor.
func actorFromContext(c echo.Context) (*auth.Claims, service.Actor) {
	claims, _ := c.Get(contextKeyActor).(*auth.Claims)
	if claims == nil {
		return nil, service.Actor{}
	}
	return claims, service.Actor{ID: claims.UserID, Role: claims.Role}
}
