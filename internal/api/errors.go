package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/service"
)

// respondError maps domain errors onto HTTP statuses. Anything unknown is
// logged and reported as a 500 with fallback as the message.
func respondError(c *gin.Context, log *zap.SugaredLogger, err error, fallback string) {
	var (
		validation *service.ValidationError
		duplicate  *service.DuplicateError
		notFound   *service.NotFoundError
		conflict   *service.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		body := gin.H{"error": validation.Message}
		if len(validation.Details) > 0 {
			body["details"] = validation.Details
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &duplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": duplicate.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": conflict.Error(), "count": conflict.Count})
	default:
		log.Errorw(fallback, "error", err, "requestID", c.GetString("requestID"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
