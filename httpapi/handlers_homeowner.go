package httpapi

import (
	"net/http"
	"time"

	"quickfixhub/request"

	"github.com/labstack/echo/v4"
)

type createRequestPayload struct {
	ServiceType   string  `json:"serviceType"`
	Description   string  `json:"description"`
	Address       string  `json:"address"`
	PreferredDate string  `json:"preferredDate"`
	PreferredTime *string `json:"preferredTime"`
}

func (s *Server) handleCreateRequest(c echo.Context) error {
	var payload createRequestPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid payload"})
	}

	ctx := c.Request().Context()
	user, err := s.auth.GetUserByID(ctx, actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}

	created, err := s.requests.Create(ctx, request.CreateParams{
		UserID:        user.ID,
		UserName:      user.Name,
		UserEmail:     user.Email,
		UserPhone:     user.Phone,
		ServiceType:   payload.ServiceType,
		Description:   payload.Description,
		Address:       payload.Address,
		PreferredDate: payload.PreferredDate,
		PreferredTime: payload.PreferredTime,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "request": toRequestResponse(created)})
}

func (s *Server) handleMyRequests(c echo.Context) error {
	ctx := c.Request().Context()

	// Opportunistic sweep so a homeowner refreshing their list sees
	// timed-out rounds advanced without waiting for the scheduler.
	if _, err := s.requests.Sweep(ctx, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Msg("inline sweep failed")
	}

	reqs, err := s.requests.ListMine(ctx, actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "requests": toRequestResponses(reqs)})
}

func (s *Server) handleCancelRequest(c echo.Context) error {
	cancelled, err := s.requests.Cancel(c.Request().Context(), c.Param("id"), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": toRequestResponse(cancelled)})
}
