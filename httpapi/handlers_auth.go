package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"quickfixhub/auth"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid payload"})
	}

	result, err := s.auth.Signup(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}

	resp := echo.Map{
		"success": true,
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	}
	if result.Profile != nil {
		resp["providerProfile"] = toProfileResponse(*result.Profile)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid payload"})
	}

	result, err := s.auth.Login(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}

	s.notifier.Notify(c.Request().Context(), "User login event",
		fmt.Sprintf("User %s (%s, %s) logged in at %s",
			result.User.ID, result.User.Email, result.User.Role, time.Now().UTC().Format(time.RFC3339)))

	resp := echo.Map{
		"success": true,
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	}
	if result.User.Role == auth.RoleProvider {
		if profile, err := s.profiles.GetByID(c.Request().Context(), result.User.ID); err == nil {
			resp["providerProfile"] = toProfileResponse(profile)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMe(c echo.Context) error {
	user, err := s.auth.GetUserByID(c.Request().Context(), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": toUserResponse(user)})
}
