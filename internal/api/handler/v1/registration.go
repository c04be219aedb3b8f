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

type RegistrationService interface {
	Register(ctx context.Context, sessionID uint, attendeeName, email string) (domain.Registration, error)
	ListByAttendee(ctx context.Context, email string) ([]domain.RegistrationDetail, error)
}

type PaymentService interface {
	Charge(ctx context.Context, registrationID uint, method string) (service.PaymentResult, error)
}

type RegistrationHandler struct {
	svc        RegistrationService
	paymentSvc PaymentService
	userSvc    UserGetter
}

func NewRegistrationHandler(svc RegistrationService, paymentSvc PaymentService, userSvc UserGetter) *RegistrationHandler {
	return &RegistrationHandler{
		svc:        svc,
		paymentSvc: paymentSvc,
		userSvc:    userSvc,
	}
}

// HandleRegister godoc
// @Summary      Register an attendee for a session
// @Tags         registrations
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      409      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /registrations [post]
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	registration, err := h.svc.Register(ctx.Request.Context(), req.SessionID, req.AttendeeName, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "ID", req.SessionID))
		case errors.Is(err, service.ErrConferenceNotFound):
			response.RenderErr(ctx, response.ErrNotFound("conference", "session ID", req.SessionID))
		case errors.Is(err, service.ErrCapacityExceeded),
			errors.Is(err, service.ErrInvalidCapacity),
			errors.Is(err, service.ErrScheduleConflict):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.Created(ctx, response.NewRegistrationCreated(registration))
}

// HandleCharge godoc
// @Summary      Run a simulated payment for a registration
// @Tags         registrations
// @Produce      json
// @Param        registrationID   path      int  true  "registration ID"
// @Param        request   body      request.ChargeRequest true "request body"
// @Success      200      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      409      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /registrations/{registrationID}/payment [post]
func (h *RegistrationHandler) HandleCharge(ctx *gin.Context) {
	registrationID, err := parseIDParam(ctx, "registrationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.ChargeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.paymentSvc.Charge(ctx.Request.Context(), registrationID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration", "ID", registrationID))
		case errors.Is(err, service.ErrAlreadyPaid):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCharge -> h.paymentSvc.Charge -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OKWithMessage(ctx, result, result.Message)
}

// HandleListMyRegistrations godoc
// @Summary      List the caller's registrations
// @Tags         attendees
// @Produce      json
// @Success      200      {object}   response.Envelope
// @Failure      401      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /attendees/me/registrations [get]
func (h *RegistrationHandler) HandleListMyRegistrations(ctx *gin.Context) {
	user, err := callerUser(ctx, h.userSvc)
	if err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))

		return
	}

	details, err := h.svc.ListByAttendee(ctx.Request.Context(), user.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyRegistrations -> h.svc.ListByAttendee -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, details)
}
