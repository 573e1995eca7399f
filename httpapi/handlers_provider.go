package httpapi

import (
	"net/http"

	"quickfixhub/request"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleDashboardSummary(c echo.Context) error {
	summary, err := s.requests.Dashboard(c.Request().Context(), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"stats": echo.Map{
			"jobsCompleted": summary.JobsCompleted,
			"activeJobs":    summary.ActiveJobs,
			"rating":        summary.Rating,
			"earnings":      summary.Earnings,
		},
	})
}

func (s *Server) handleAvailableJobs(c echo.Context) error {
	jobs, err := s.requests.ListAvailableJobs(c.Request().Context(), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "jobs": toRequestResponses(jobs)})
}

func (s *Server) handleMyJobs(c echo.Context) error {
	jobs, err := s.requests.ListAssignedJobs(c.Request().Context(), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "jobs": toRequestResponses(jobs)})
}

func (s *Server) handleAcceptOffer(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := s.auth.GetUserByID(ctx, actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}

	accepted, err := s.requests.Accept(ctx, c.Param("id"), request.ProviderContact{
		ProviderID: user.ID,
		Name:       user.Name,
		Phone:      user.Phone,
		Email:      user.Email,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": toRequestResponse(accepted)})
}

func (s *Server) handleRejectOffer(c echo.Context) error {
	updated, err := s.requests.Reject(c.Request().Context(), c.Param("id"), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": toRequestResponse(updated)})
}

func (s *Server) handleStartJob(c echo.Context) error {
	updated, err := s.requests.Start(c.Request().Context(), c.Param("id"), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": toRequestResponse(updated)})
}

func (s *Server) handleCompleteJob(c echo.Context) error {
	updated, err := s.requests.Complete(c.Request().Context(), c.Param("id"), actorID(c))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": toRequestResponse(updated)})
}
