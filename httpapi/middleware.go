package httpapi

import (
	"net/http"
	"strings"

	"quickfixhub/auth"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// requireAuth validates the bearer token and stashes the actor's id and
// role on the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
		}

		userID, role, err := s.auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, string(role))
		return next(c)
	}
}

// requireRole restricts a route group to one of the two fixed roles.
func (s *Server) requireRole(role auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if got, _ := c.Get(ctxRole).(string); got != string(role) {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "access denied"})
			}
			return next(c)
		}
	}
}

func actorID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}
