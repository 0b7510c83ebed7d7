package handler

import (
	"net/http"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type messageSourceRequest struct {
	MessageTemplateID *uuid.UUID  `json:"messageTemplateId"`
	Message           string      `json:"message"`
	ContactIDs        []uuid.UUID `json:"contactIds"`
}

func (r messageSourceRequest) source() domain.MessageSource {
	src := domain.MessageSource{Message: r.Message}
	if r.MessageTemplateID != nil {
		src.TemplateID = *r.MessageTemplateID
	}
	return src
}

type dispatchRequest struct {
	ProjectID uuid.UUID `json:"projectId"`
	messageSourceRequest
}

type dispatchConfirmedRequest struct {
	ConfirmedMessages []domain.PreparedMessage `json:"confirmedMessages"`
}

// PreviewMessages godoc
// @Summary Render messages for confirmation
// @Description Renders the template or literal message for every selected contact (all contacts when contactIds is empty). Nothing is sent.
// @Tags Dispatch
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "project id"
// @Param request body messageSourceRequest true "message source"
// @Success 200 {array} domain.PreparedMessage
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /project/{id}/confirmAndDispatchMessages [post]
func (h *Handler) previewMessages(c *gin.Context) {
	var req messageSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	projectID := scopedProject(c).ID

	contacts, err := h.projects.ResolveContacts(ctx, projectID, req.ContactIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	prepared, err := h.dispatcher.Preview(ctx, projectID, contacts, req.source())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prepared)
}

// DispatchConfirmedMessages godoc
// @Summary Send previewed messages
// @Description Sends the confirmed messages exactly as given. Per-contact failures are reported in the result list.
// @Tags Dispatch
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "project id"
// @Param request body dispatchConfirmedRequest true "confirmed messages"
// @Success 200 {array} domain.DispatchResult
// @Failure 400 {object} errorResponse
// @Router /project/{id}/dispatchConfirmedMessages [post]
func (h *Handler) dispatchConfirmedMessages(c *gin.Context) {
	var req dispatchConfirmedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	results, err := h.dispatcher.DispatchConfirmed(c.Request.Context(), scopedProject(c).ID, req.ConfirmedMessages)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// DispatchMessages godoc
// @Summary Render and send messages in one step
// @Tags Dispatch
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dispatchRequest true "dispatch request"
// @Success 200 {array} domain.DispatchResult
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /dispatchMessages [post]
func (h *Handler) dispatchMessages(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.ProjectID == uuid.Nil {
		badRequest(c, "projectId is required")
		return
	}

	ctx := c.Request.Context()
	project, err := h.projects.Authorize(ctx, userID(c), req.ProjectID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	contacts, err := h.projects.ResolveContacts(ctx, project.ID, req.ContactIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results, err := h.dispatcher.Dispatch(ctx, project.ID, contacts, req.source())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

type replyRequest struct {
	Message string `json:"message" binding:"required"`
	Status  string `json:"status"`
}

// RecordReply godoc
// @Summary Record an inbound reply from a contact
// @Tags Conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "project id"
// @Param contactId path string true "contact id"
// @Param reply body replyRequest true "reply"
// @Success 201 {object} domain.Conversation
// @Failure 404 {object} errorResponse
// @Router /project/{id}/contacts/{contactId}/replies [post]
func (h *Handler) recordReply(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		badRequest(c, "invalid contact id")
		return
	}

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	conv, err := h.dispatcher.RecordReply(c.Request.Context(), scopedProject(c).ID, contactID, req.Message, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}
