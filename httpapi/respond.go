package httpapi

import (
	"errors"
	"net/http"
	"time"

	"quickfixhub/auth"
	"quickfixhub/offer"
	"quickfixhub/provider"
	"quickfixhub/request"

	"github.com/labstack/echo/v4"
)

// requestResponse is the wire shape of a service request, camelCase to
// match what the frontend consumes.
type requestResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	UserName           string     `json:"userName"`
	UserEmail          string     `json:"userEmail"`
	UserPhone          string     `json:"userPhone"`
	ServiceType        string     `json:"serviceType"`
	Description        string     `json:"description"`
	Address            string     `json:"address"`
	PreferredDate      string     `json:"preferredDate"`
	PreferredTime      *string    `json:"preferredTime"`
	Status             string     `json:"status"`
	AssignedProviderID *string    `json:"assignedProviderId"`
	ProviderName       *string    `json:"providerName"`
	ProviderPhone      *string    `json:"providerPhone"`
	ProviderEmail      *string    `json:"providerEmail"`
	OfferRound         int        `json:"offerRound"`
	OfferExpiresAt     *time.Time `json:"offerExpiresAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toRequestResponse(req request.ServiceRequest) requestResponse {
	return requestResponse{
		ID:                 req.ID,
		UserID:             req.UserID,
		UserName:           req.UserName,
		UserEmail:          req.UserEmail,
		UserPhone:          req.UserPhone,
		ServiceType:        req.ServiceType,
		Description:        req.Description,
		Address:            req.Address,
		PreferredDate:      req.PreferredDate,
		PreferredTime:      req.PreferredTime,
		Status:             string(req.Status),
		AssignedProviderID: req.AssignedProviderID,
		ProviderName:       req.ProviderName,
		ProviderPhone:      req.ProviderPhone,
		ProviderEmail:      req.ProviderEmail,
		OfferRound:         req.OfferRound,
		OfferExpiresAt:     req.OfferExpiresAt,
		CreatedAt:          req.CreatedAt,
		UpdatedAt:          req.UpdatedAt,
	}
}

func toRequestResponses(reqs []request.ServiceRequest) []requestResponse {
	out := make([]requestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequestResponse(r))
	}
	return out
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

type profileResponse struct {
	ProviderID   string    `json:"providerId"`
	ServiceTypes []string  `json:"serviceTypes"`
	Address      string    `json:"address"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toProfileResponse(p provider.Profile) profileResponse {
	return profileResponse{
		ProviderID:   p.ProviderID,
		ServiceTypes: p.ServiceTypes,
		Address:      p.Address,
		IsVerified:   p.IsVerified,
		CreatedAt:    p.CreatedAt,
	}
}

// writeError maps domain errors onto status codes. Duplicate offers are a
// broken invariant, never a caller mistake, so they surface as 500 after
// being logged by the caller.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, request.ErrValidation),
		errors.Is(err, request.ErrInvalidState),
		errors.Is(err, offer.ErrNoActiveOffer),
		errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrProviderProfileRequired),
		errors.Is(err, auth.ErrDuplicateEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid credentials"})
	case errors.Is(err, request.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "forbidden"})
	case errors.Is(err, request.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, provider.ErrProfileNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "not found"})
	default:
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}
