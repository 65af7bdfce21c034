package controller

import (
	"errors"
	"net/http"

	"github.com/alexandre-rezende616/spacelearn/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps domain sentinels to HTTP status codes. Anything
// unrecognized is a 500 and gets logged with its cause.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(c, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c, err.Error())
	case errors.Is(err, util.ErrMissionNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrOptionNotFound),
		errors.Is(err, util.ErrClassNotFound),
		errors.Is(err, util.ErrMedalNotFound),
		errors.Is(err, util.ErrItemNotFound),
		errors.Is(err, util.ErrProfileNotFound):
		util.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrMissionNotPublished),
		errors.Is(err, util.ErrMissionLocked),
		errors.Is(err, util.ErrMissionNotReady),
		errors.Is(err, util.ErrOptionMismatch),
		errors.Is(err, util.ErrQuestionMismatch),
		errors.Is(err, util.ErrTotalQuestionMismatch),
		errors.Is(err, util.ErrItemNotOwned):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrItemAlreadyOwned):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrAttemptLimitExceeded),
		errors.Is(err, util.ErrInsufficientCoins):
		util.Forbidden(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
