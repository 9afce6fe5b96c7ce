package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/seikotsu/booking-api/pkg/errors"
)

// ErrorHandler logs errors attached to the context and writes a uniform
// response for any that reached the end of the chain unanswered.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		if c.Writer.Written() {
			return
		}

		last := c.Errors.Last().Err
		var appErr *apperrors.AppError
		if errors.As(last, &appErr) {
			c.JSON(statusForCode(appErr.Code), gin.H{
				"status":  "error",
				"message": appErr.Message,
				"code":    appErr.Code,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "internal server error",
		})
	}
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
