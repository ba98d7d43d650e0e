package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobly-be/internal/api/domain"
	"github.com/cuongbtq/jobly-be/internal/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// statusForError maps repository errors to HTTP statuses
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgerrcode.ForeignKeyViolation,
			pgerrcode.NotNullViolation,
			pgerrcode.CheckViolation,
			pgerrcode.InvalidTextRepresentation,
			pgerrcode.NumericValueOutOfRange:
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// respondError writes the JSON error body. Server errors hide the cause from the client.
func (h *JobHandler) respondError(c *gin.Context, msg string, err error) {
	status := statusForError(err)

	message := err.Error()
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && status == http.StatusBadRequest {
		message = pqErr.Message
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(msg,
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		message = msg
	} else {
		h.logger.Warn(msg,
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(status, dto.ErrorResponse{Error: dto.ErrorBody{Message: message, Status: status}})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
		Message: message,
		Status:  http.StatusBadRequest,
	}})
}
