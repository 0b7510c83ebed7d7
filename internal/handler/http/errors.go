package handler

import (
	"errors"
	"net/http"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrContactNotFound),
		errors.Is(err, domain.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrProjectNameTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidCSV),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(status, errorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
