package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/confera/conference-api/internal/api/handler/v1/request"
	"github.com/confera/conference-api/internal/api/handler/v1/response"
	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/service"
)

type AttendeeService interface {
	Profile(ctx context.Context, email string) (domain.AttendeeProfile, error)
	GenerateOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	SavePreference(ctx context.Context, name, email string, sessionID uint, preferenceType domain.PreferenceType) (domain.Preference, error)
}

type AttendeeHandler struct {
	svc     AttendeeService
	userSvc UserGetter
}

func NewAttendeeHandler(svc AttendeeService, userSvc UserGetter) *AttendeeHandler {
	return &AttendeeHandler{
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandleProfile godoc
// @Summary      Get the caller's attendee profile
// @Tags         attendees
// @Produce      json
// @Success      200      {object}   response.Envelope
// @Failure      401      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /attendees/me/profile [get]
func (h *AttendeeHandler) HandleProfile(ctx *gin.Context) {
	user, err := callerUser(ctx, h.userSvc)
	if err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))

		return
	}

	profile, err := h.svc.Profile(ctx.Request.Context(), user.Email)
	if err != nil {
		if errors.Is(err, service.ErrAttendeeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("attendee", "email", user.Email))

			return
		}

		err = fmt.Errorf("v1.HandleProfile -> h.svc.Profile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, profile)
}

// HandleSavePreference godoc
// @Summary      Save the caller's preference for a session
// @Tags         attendees
// @Produce      json
// @Param        request   body      request.PreferenceRequest true "request body"
// @Success      200      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /attendees/me/preferences [post]
func (h *AttendeeHandler) HandleSavePreference(ctx *gin.Context) {
	user, err := callerUser(ctx, h.userSvc)
	if err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))

		return
	}

	var req request.PreferenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	preference, err := h.svc.SavePreference(ctx.Request.Context(), user.Name, user.Email,
		req.SessionID, domain.PreferenceType(req.PreferenceType))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPreferenceType):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "ID", req.SessionID))
		default:
			err = fmt.Errorf("v1.HandleSavePreference -> h.svc.SavePreference -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OKWithMessage(ctx, preference, "preference saved")
}

// HandleGenerateOTP godoc
// @Summary      Email a verification code to the caller
// @Tags         attendees
// @Produce      json
// @Success      200      {object}   response.Envelope
// @Failure      401      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /attendees/me/otp [post]
func (h *AttendeeHandler) HandleGenerateOTP(ctx *gin.Context) {
	user, err := callerUser(ctx, h.userSvc)
	if err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))

		return
	}

	if err := h.svc.GenerateOTP(ctx.Request.Context(), user.Email); err != nil {
		if errors.Is(err, service.ErrAttendeeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("attendee", "email", user.Email))

			return
		}

		err = fmt.Errorf("v1.HandleGenerateOTP -> h.svc.GenerateOTP -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OKWithMessage(ctx, nil, "verification code sent")
}

// HandleVerifyOTP godoc
// @Summary      Verify the caller's emailed code
// @Tags         attendees
// @Produce      json
// @Param        request   body      request.VerifyOTPRequest true "request body"
// @Success      200      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /attendees/me/otp/verify [post]
func (h *AttendeeHandler) HandleVerifyOTP(ctx *gin.Context) {
	user, err := callerUser(ctx, h.userSvc)
	if err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))

		return
	}

	var req request.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.VerifyOTP(ctx.Request.Context(), user.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrAttendeeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("attendee", "email", user.Email))
		case errors.Is(err, service.ErrOTPNotRequested),
			errors.Is(err, service.ErrOTPExpired),
			errors.Is(err, service.ErrOTPInvalid):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleVerifyOTP -> h.svc.VerifyOTP -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OKWithMessage(ctx, nil, "email verified")
}
