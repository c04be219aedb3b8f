package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/confera/conference-api/internal/api/handler/v1/request"
	"github.com/confera/conference-api/internal/api/handler/v1/response"
	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/service"
)

type AdminService interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	RecentRegistrations(ctx context.Context, limit int) ([]domain.AdminRegistration, error)
}

type ConferenceAdminService interface {
	CreateConference(ctx context.Context, conference domain.Conference) (domain.Conference, error)
	CreateSession(ctx context.Context, session domain.Session) (domain.Session, error)
}

type AdminHandler struct {
	svc           AdminService
	conferenceSvc ConferenceAdminService
}

func NewAdminHandler(svc AdminService, conferenceSvc ConferenceAdminService) *AdminHandler {
	return &AdminHandler{
		svc:           svc,
		conferenceSvc: conferenceSvc,
	}
}

// HandleDashboard godoc
// @Summary      Aggregate counts and revenue for the admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200      {object}   response.Envelope
// @Failure      401      {object}   response.Envelope
// @Failure      403      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /admin/dashboard [get]
func (h *AdminHandler) HandleDashboard(ctx *gin.Context) {
	stats, err := h.svc.Dashboard(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, stats)
}

// HandleRecentRegistrations godoc
// @Summary      List the most recent registrations
// @Tags         admin
// @Produce      json
// @Param        limit   query      int  false  "maximum entries"
// @Success      200      {object}   response.Envelope
// @Failure      401      {object}   response.Envelope
// @Failure      403      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /admin/registrations [get]
func (h *AdminHandler) HandleRecentRegistrations(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	registrations, err := h.svc.RecentRegistrations(ctx.Request.Context(), limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleRecentRegistrations -> h.svc.RecentRegistrations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, registrations)
}

// HandleCreateConference godoc
// @Summary      Create a conference
// @Tags         admin
// @Produce      json
// @Param        request   body      request.CreateConferenceRequest true "request body"
// @Success      201      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /admin/conferences [post]
func (h *AdminHandler) HandleCreateConference(ctx *gin.Context) {
	var req request.CreateConferenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	conference, err := h.conferenceSvc.CreateConference(ctx.Request.Context(), domain.Conference{
		Name:            req.Name,
		StartDate:       startDate,
		EndDate:         endDate,
		Location:        req.Location,
		Description:     req.Description,
		RegistrationFee: req.RegistrationFee,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) || errors.Is(err, service.ErrNegativeFee) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateConference -> h.conferenceSvc.CreateConference -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.Created(ctx, conference)
}

// HandleCreateSession godoc
// @Summary      Create a session in a conference
// @Tags         admin
// @Produce      json
// @Param        conferenceID   path      int  true  "conference ID"
// @Param        request   body      request.CreateSessionRequest true "request body"
// @Success      201      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      409      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /admin/conferences/{conferenceID}/sessions [post]
func (h *AdminHandler) HandleCreateSession(ctx *gin.Context) {
	conferenceID, err := parseIDParam(ctx, "conferenceID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	session, err := h.conferenceSvc.CreateSession(ctx.Request.Context(), domain.Session{
		ConferenceID: conferenceID,
		Name:         req.Name,
		Speaker:      req.Speaker,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MaxAttendees: req.MaxAttendees,
		Description:  req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConferenceNotFound):
			response.RenderErr(ctx, response.ErrNotFound("conference", "ID", conferenceID))
		case errors.Is(err, service.ErrSessionOverlap):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInvalidSessionTime),
			errors.Is(err, service.ErrSessionTooShort),
			errors.Is(err, service.ErrSessionOutsideConference),
			errors.Is(err, service.ErrInvalidSessionCapacity):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateSession -> h.conferenceSvc.CreateSession -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.Created(ctx, session)
}
