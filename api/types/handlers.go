package types

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/pkg/errors"
)

// Context keys used to enrich error logs
const (
	ContextKeyPayloadSize = "payload_size"
)

// Handler utility functions to reduce duplication across handlers

// SetPayloadSize records the size of the media in the current request
func SetPayloadSize(c *gin.Context, size int) {
	c.Set(ContextKeyPayloadSize, size)
}

// BindJSONOrError binds the JSON request body to target. Returns false and
// sends an error response if binding fails.
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			RespondError(c, errors.Validation("Request body too large").
				WithStatus(http.StatusRequestEntityTooLarge).
				WithDetails(fmt.Sprintf("limit is %d bytes", maxErr.Limit)))
			return false
		}
		RespondError(c, errors.Validation("Invalid request body").WithCause(err))
		return false
	}
	return true
}

// RespondOK writes a 200 JSON body and stops the handler chain
func RespondOK(c *gin.Context, body interface{}) {
	c.AbortWithStatusJSON(http.StatusOK, body)
}

// RespondError maps err to its status and writes the error body. Causes of
// internal errors are logged and never returned to the client.
func RespondError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	status := appErr.GetHTTPCode()

	logEvent(c, appErr).
		Err(err).
		Str("code", string(appErr.Code)).
		Int("status", status).
		Msg(appErr.Message)

	body := ErrorResponse{Error: appErr.Message}
	if appErr.Code != errors.ErrCodeInternal {
		body.Details = appErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

func logEvent(c *gin.Context, appErr *errors.AppError) *zerolog.Event {
	log := zerolog.Ctx(c.Request.Context())

	var event *zerolog.Event
	if appErr.GetHTTPCode() >= http.StatusInternalServerError {
		event = log.Error()
	} else {
		event = log.Warn()
	}

	event = event.Str("endpoint", c.FullPath())
	if size, ok := c.Get(ContextKeyPayloadSize); ok {
		event = event.Interface("payload_size", size)
	}
	if appErr.UpstreamStatus != 0 {
		event = event.Int("upstream_status", appErr.UpstreamStatus)
	}
	return event
}
