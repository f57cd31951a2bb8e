package middleware

import (
	apiError "alizia-planner/internal/errors"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	*apiError.APIError
	Notice string `json:"notice"`
}

func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *apiError.APIError
		if !errors.As(err, &apiErr) {
			// If it's a raw error we didn't wrap, treat as Internal
			apiErr = apiError.Internal(err)
		}

		event := logger.Info()
		if apiErr.Status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(apiErr.Internal).
			Int("status", apiErr.Status).
			Str("kind", string(apiErr.Kind)).
			Str("path", c.FullPath()).
			Msg(apiErr.Message)

		c.AbortWithStatusJSON(apiErr.Status, errorResponse{APIError: apiErr, Notice: apiError.Notice(err)})
	}
}
