package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/p5math/internal/grading"
	"github.com/abhisek/p5math/internal/problemgen"
)

// writeError maps err to a status code and a client-safe message. Anything
// unrecognised is a 500 with fallback as the message.
func writeError(c *gin.Context, err error, fallback string) {
	status, msg := classifyError(err, fallback)

	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("path", c.FullPath()).
		Int("status", status).
		Msg("request failed")

	c.JSON(status, ErrorResponse{Error: msg})
}

func classifyError(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, grading.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, grading.ErrSessionNotFound):
		return http.StatusNotFound, "Problem session not found"
	}

	var genErr *problemgen.GenerateError
	if errors.As(err, &genErr) {
		return http.StatusInternalServerError, genErr.Message
	}

	return http.StatusInternalServerError, fallback
}
