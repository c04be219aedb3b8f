package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/confera/conference-api/internal/api/middleware"
	"github.com/confera/conference-api/internal/domain"
)

var (
	errInvalidID       = errors.New("invalid identifier")
	errMissingIdentity = errors.New("missing authenticated user")
)

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %v %q", errInvalidID, name, raw)
	}

	return uint(id), nil
}

// callerUser loads the user record behind the JWT claims set by the
// authenticator middleware.
func callerUser(ctx *gin.Context, userSvc UserGetter) (domain.User, error) {
	userID := ctx.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		return domain.User{}, errMissingIdentity
	}

	user, err := userSvc.FindUserByID(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("callerUser -> userSvc.FindUserByID -> %w", err)
	}

	return user, nil
}
