package v1

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/confera/conference-api/internal/api/handler/v1/response"
	"github.com/confera/conference-api/internal/domain"
)

type RecommendationService interface {
	Recommend(ctx context.Context, email string, limit int) ([]domain.RecommendedSession, error)
}

type RecommendationHandler struct {
	svc     RecommendationService
	userSvc UserGetter
}

func NewRecommendationHandler(svc RecommendationService, userSvc UserGetter) *RecommendationHandler {
	return &RecommendationHandler{
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandleRecommendations godoc
// @Summary      Recommend sessions for the caller
// @Tags         recommendations
// @Produce      json
// @Param        limit   query      int  false  "maximum entries"
// @Success      200      {object}   response.Envelope
// @Failure      401      {object}   response.Envelope
// @Failure      500      {object}   response.Envelope
// @Router       /recommendations [get]
func (h *RecommendationHandler) HandleRecommendations(ctx *gin.Context) {
	user, err := callerUser(ctx, h.userSvc)
	if err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))

		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))

	recommendations, err := h.svc.Recommend(ctx.Request.Context(), user.Email, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleRecommendations -> h.svc.Recommend -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, recommendations)
}
