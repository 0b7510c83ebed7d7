package handler

import (
	"context"
	"log/slog"
	"net/http"

	_ "github.com/aniladanir/campaign-messenger/docs"
	"github.com/aniladanir/campaign-messenger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handler struct {
	projects   service.ProjectService
	dispatcher service.Dispatcher
	statistics service.StatisticsAggregator
	logger     *slog.Logger
	server     *http.Server
}

type Options struct {
	Addr       string
	JWTSecret  string
	Projects   service.ProjectService
	Dispatcher service.Dispatcher
	Statistics service.StatisticsAggregator
	Gatherer   prometheus.Gatherer
	Logger     *slog.Logger
}

// @title Campaign Messenger API
// @version 1.0
// @description SMS campaign dispatch, conversations and statistics
// @host localhost:6060
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func NewHttpHandler(opts Options) *Handler {
	h := &Handler{
		projects:   opts.Projects,
		dispatcher: opts.Dispatcher,
		statistics: opts.Statistics,
		logger:     opts.Logger,
	}

	// create router
	router := gin.Default()

	// public routes
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// authenticated routes
	api := router.Group("/", authMiddleware(opts.JWTSecret))
	api.POST("/projects", h.createProject)
	api.GET("/projects", h.listProjects)
	api.GET("/dashboard/stats", h.dashboardStats)
	api.POST("/dispatchMessages", h.dispatchMessages)
	api.GET("/statistics/:projectId", h.projectScope("projectId"), h.getStatistics)
	// the statistics cache is invalidated on every append, so realtime is the same view
	api.GET("/realtime-statistics/:projectId", h.projectScope("projectId"), h.getStatistics)
	api.GET("/conversations/:projectId", h.projectScope("projectId"), h.listConversations)

	project := api.Group("/project/:id", h.projectScope("id"))
	project.POST("/contacts", h.importContacts)
	project.GET("/contacts", h.listContacts)
	project.POST("/contacts/:contactId/replies", h.recordReply)
	project.POST("/templates", h.createTemplate)
	project.GET("/templates", h.listTemplates)
	project.POST("/confirmAndDispatchMessages", h.previewMessages)
	project.POST("/dispatchConfirmedMessages", h.dispatchConfirmedMessages)
	project.GET("/reports", h.exportReport)

	// create http server
	h.server = &http.Server{
		Addr:    opts.Addr,
		Handler: router.Handler(),
	}

	return h
}

func (h *Handler) Run() error {
	return h.server.ListenAndServe()
}

func (h *Handler) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
