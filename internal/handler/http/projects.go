package handler

import (
	"net/http"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const projectKey = "project"

// projectScope loads the project named by the path parameter and checks the
// caller owns it
func (h *Handler) projectScope(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param(param))
		if err != nil {
			badRequest(c, "invalid project id")
			c.Abort()
			return
		}

		project, err := h.projects.Authorize(c.Request.Context(), userID(c), projectID)
		if err != nil {
			h.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(projectKey, project)
		c.Next()
	}
}

func scopedProject(c *gin.Context) *domain.Project {
	return c.MustGet(projectKey).(*domain.Project)
}

type createProjectRequest struct {
	Name              string `json:"name" binding:"required"`
	OriginationNumber string `json:"originationNumber"`
	RotationSchedule  string `json:"rotationSchedule"`
}

// CreateProject godoc
// @Summary Create a project
// @Tags Projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "project"
// @Success 201 {object} domain.Project
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /projects [post]
func (h *Handler) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p := &domain.Project{
		UserID:            userID(c),
		Name:              req.Name,
		OriginationNumber: req.OriginationNumber,
		RotationSchedule:  req.RotationSchedule,
	}
	if err := h.projects.CreateProject(c.Request.Context(), p); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListProjects godoc
// @Summary List the caller's projects
// @Tags Projects
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Project
// @Router /projects [get]
func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ImportContacts godoc
// @Summary Import contacts from a csv file
// @Description Header row required. phone, fname, lname and surveyLink are named fields, metaData may hold a json object, other columns become custom fields.
// @Tags Contacts
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "project id"
// @Param file formData file true "contacts csv"
// @Success 201 {array} domain.Contact
// @Failure 400 {object} errorResponse
// @Router /project/{id}/contacts [post]
func (h *Handler) importContacts(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer f.Close()

	contacts, err := h.projects.ImportContacts(c.Request.Context(), scopedProject(c).ID, f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contacts)
}

// ListContacts godoc
// @Summary List the project's contacts
// @Tags Contacts
// @Security BearerAuth
// @Produce json
// @Param id path string true "project id"
// @Success 200 {array} domain.Contact
// @Router /project/{id}/contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	contacts, err := h.projects.ListContacts(c.Request.Context(), scopedProject(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

type createTemplateRequest struct {
	Name    string              `json:"name"`
	Kind    domain.TemplateKind `json:"kind"`
	Content string              `json:"content" binding:"required"`
}

// CreateTemplate godoc
// @Summary Create a message template
// @Description Content may reference contact fields as [fieldName]. Kind is initial, response or block.
// @Tags Templates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "project id"
// @Param template body createTemplateRequest true "template"
// @Success 201 {object} domain.Template
// @Failure 400 {object} errorResponse
// @Router /project/{id}/templates [post]
func (h *Handler) createTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t := &domain.Template{
		ProjectID: scopedProject(c).ID,
		Name:      req.Name,
		Kind:      req.Kind,
		Content:   req.Content,
	}
	if err := h.projects.CreateTemplate(c.Request.Context(), t); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ListTemplates godoc
// @Summary List the project's templates
// @Tags Templates
// @Security BearerAuth
// @Produce json
// @Param id path string true "project id"
// @Success 200 {array} domain.Template
// @Router /project/{id}/templates [get]
func (h *Handler) listTemplates(c *gin.Context) {
	templates, err := h.projects.ListTemplates(c.Request.Context(), scopedProject(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}
