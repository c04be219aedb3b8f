package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/confera/conference-api/internal/api/handler/v1/response"
	"github.com/confera/conference-api/internal/api/middleware"
	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/service"
)

type ConferenceService interface {
	ListActiveConferences(ctx context.Context) ([]domain.Conference, error)
	ListSessions(ctx context.Context, conferenceID uint, callerEmail string) ([]domain.SessionListing, error)
}

type UserGetter interface {
	FindUserByID(ctx context.Context, id uint) (domain.User, error)
}

type ConferenceHandler struct {
	svc     ConferenceService
	userSvc UserGetter
}

func NewConferenceHandler(svc ConferenceService, userSvc UserGetter) *ConferenceHandler {
	return &ConferenceHandler{
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandleListConferences godoc
// @Summary      List upcoming and ongoing conferences with their sessions
// @Tags         conferences
// @Produce      json
// @Success      200      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /conferences [get]
func (h *ConferenceHandler) HandleListConferences(ctx *gin.Context) {
	conferences, err := h.svc.ListActiveConferences(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListConferences -> h.svc.ListActiveConferences -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, conferences)
}

// HandleListSessions godoc
// @Summary      List a conference's sessions with availability
// @Tags         conferences
// @Produce      json
// @Param        conferenceID   path      int  true  "conference ID"
// @Success      200      {object}   response.Envelope
// @Failure      400      {object}   response.Envelope
// @Failure      404      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /conferences/{conferenceID}/sessions [get]
func (h *ConferenceHandler) HandleListSessions(ctx *gin.Context) {
	conferenceID, err := parseIDParam(ctx, "conferenceID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	email := h.callerEmail(ctx)

	listings, err := h.svc.ListSessions(ctx.Request.Context(), conferenceID, email)
	if err != nil {
		if errors.Is(err, service.ErrConferenceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("conference", "ID", conferenceID))

			return
		}

		err = fmt.Errorf("v1.HandleListSessions -> h.svc.ListSessions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, listings)
}

// callerEmail resolves the authenticated user's email. Anonymous callers get
// an empty string and lose only the per-user registration flags.
func (h *ConferenceHandler) callerEmail(ctx *gin.Context) string {
	userID := ctx.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		return ""
	}

	user, err := h.userSvc.FindUserByID(ctx.Request.Context(), userID)
	if err != nil {
		return ""
	}

	return user.Email
}
