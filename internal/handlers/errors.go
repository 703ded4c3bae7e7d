package handlers

import (
	"log/slog"
	"net/http"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/gin-gonic/gin"
)

var kindStatus = map[domain.Kind]int{
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindConflict:        http.StatusConflict,
	domain.KindInvalidArgument: http.StatusBadRequest,
	domain.KindDuplicateKey:    http.StatusConflict,
	domain.KindUnauthorized:    http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindUnavailable:     http.StatusServiceUnavailable,
	domain.KindInternal:        http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": domain.PublicMessage(err)})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}
