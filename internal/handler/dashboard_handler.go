package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/yourorg/trading-dashboard/internal/client"
	"github.com/yourorg/trading-dashboard/internal/middleware"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/service"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxConceptsPerPage = 100

// DashboardHandler handles dashboard page and operation requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes mounts the dashboard API on router
func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/dashboard", h.GetIndex)

	concepts := router.Group("/concepts")
	{
		concepts.GET("", h.GetConcepts)
		concepts.GET("/count", h.GetConceptCount)
		concepts.GET("/categories", h.GetConceptCategories)
		concepts.GET("/:name", h.GetConcept)
	}

	strategies := router.Group("/strategies")
	{
		strategies.GET("", h.GetStrategies)
		strategies.GET("/:name", h.GetStrategyDetails)
		strategies.POST("/analyze", h.AnalyzeSymbol)
	}

	operations := router.Group("/operations")
	{
		operations.POST("/signals", h.SubmitSignals)
		operations.GET("/signals", h.GetSignals)
		operations.POST("/backtest", h.SubmitBacktest)
		operations.GET("/backtest", h.GetBacktest)
		operations.DELETE("/:name", h.AbandonOperation)
	}

	router.GET("/backtesting", h.GetBacktesting)
	router.GET("/notifications", h.GetNotifications)
}

// GetIndex handles the landing page
// GET /api/dashboard
func (h *DashboardHandler) GetIndex(c *gin.Context) {
	utils.SendDataResponse(c, http.StatusOK, h.dashboardService.Index(c.Request.Context()))
}

// GetConcepts handles the filtered concept catalog
// GET /api/concepts?category=&search=&page=&limit=
func (h *DashboardHandler) GetConcepts(c *gin.Context) {
	params := utils.ParsePaginationParams(c, maxConceptsPerPage)
	page := h.dashboardService.Concepts(c.Request.Context(), c.Query("category"), c.Query("search"), params)
	utils.SendDataResponse(c, http.StatusOK, page)
}

// GetConceptCount handles the implemented concept count
// GET /api/concepts/count
func (h *DashboardHandler) GetConceptCount(c *gin.Context) {
	count, err := h.dashboardService.ConceptCount(c.Request.Context())
	if err != nil {
		h.sendBackendError(c, err, "Failed to fetch concept count")
		return
	}
	utils.SendDataResponse(c, http.StatusOK, model.ConceptCountResponse{Count: count})
}

// GetConceptCategories handles the backend category grouping
// GET /api/concepts/categories
func (h *DashboardHandler) GetConceptCategories(c *gin.Context) {
	categories, err := h.dashboardService.ConceptCategories(c.Request.Context())
	if err != nil {
		h.sendBackendError(c, err, "Failed to fetch concept categories")
		return
	}
	utils.SendDataResponse(c, http.StatusOK, model.ConceptCategoriesResponse{Categories: categories})
}

// GetConcept handles a single concept
// GET /api/concepts/{name}
func (h *DashboardHandler) GetConcept(c *gin.Context) {
	concept, err := h.dashboardService.Concept(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.sendBackendError(c, err, "Failed to fetch concept")
		return
	}
	utils.SendDataResponse(c, http.StatusOK, concept)
}

// GetStrategies handles the strategies page
// GET /api/strategies
func (h *DashboardHandler) GetStrategies(c *gin.Context) {
	utils.SendDataResponse(c, http.StatusOK, h.dashboardService.Strategies(c.Request.Context()))
}

// GetStrategyDetails handles a single strategy description
// GET /api/strategies/{name}
func (h *DashboardHandler) GetStrategyDetails(c *gin.Context) {
	details, err := h.dashboardService.StrategyDetails(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.sendBackendError(c, err, "Failed to fetch strategy")
		return
	}
	utils.SendDataResponse(c, http.StatusOK, details)
}

// AnalyzeSymbol handles a symbol analysis
// POST /api/strategies/analyze
func (h *DashboardHandler) AnalyzeSymbol(c *gin.Context) {
	var form model.AnalysisForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.dashboardService.Analyze(c.Request.Context(), form)
	if err != nil {
		if h.sendValidationError(c, err) {
			return
		}
		h.sendBackendError(c, err, "Failed to analyze symbol")
		return
	}
	utils.SendDataResponse(c, http.StatusOK, result)
}

// SubmitSignals starts signal generation for the caller's session
// POST /api/operations/signals[?wait=true]
func (h *DashboardHandler) SubmitSignals(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var form model.SignalForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	panel, started, err := h.dashboardService.SubmitSignals(c.Request.Context(), sess, form, wantsWait(c))
	if err != nil {
		if !h.sendValidationError(c, err) {
			h.logger.Error("Failed to submit signals", zap.Error(err))
			utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to submit signals")
		}
		return
	}

	h.sendSubmission(c, started, panel)
}

// GetSignals returns the caller's signal operation
// GET /api/operations/signals
func (h *DashboardHandler) GetSignals(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	utils.SendDataResponse(c, http.StatusOK, h.dashboardService.SignalsPanel(sess))
}

// SubmitBacktest starts a backtest for the caller's session
// POST /api/operations/backtest[?wait=true]
func (h *DashboardHandler) SubmitBacktest(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var form model.BacktestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	panel, started, err := h.dashboardService.SubmitBacktest(c.Request.Context(), sess, form, wantsWait(c))
	if err != nil {
		if !h.sendValidationError(c, err) {
			h.logger.Error("Failed to submit backtest", zap.Error(err))
			utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to submit backtest")
		}
		return
	}

	h.sendSubmission(c, started, panel)
}

// GetBacktest returns the caller's backtest operation
// GET /api/operations/backtest
func (h *DashboardHandler) GetBacktest(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	utils.SendDataResponse(c, http.StatusOK, h.dashboardService.BacktestPanel(c.Request.Context(), sess))
}

// AbandonOperation drops an in-flight operation
// DELETE /api/operations/{name}
func (h *DashboardHandler) AbandonOperation(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	name := c.Param("name")
	abandoned, err := h.dashboardService.Abandon(sess, name)
	if errors.Is(err, service.ErrUnknownOperation) {
		utils.SendErrorResponse(c, http.StatusNotFound, "Unknown operation")
		return
	}
	if !abandoned {
		utils.SendErrorResponse(c, http.StatusConflict, "Operation is not running")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBacktesting handles the backtesting page
// GET /api/backtesting
func (h *DashboardHandler) GetBacktesting(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	utils.SendDataResponse(c, http.StatusOK, h.dashboardService.Backtesting(c.Request.Context(), sess))
}

// GetNotifications drains the caller's notifications
// GET /api/notifications
func (h *DashboardHandler) GetNotifications(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.dashboardService.Notifications(sess))
}

func (h *DashboardHandler) session(c *gin.Context) (*session.Session, bool) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Session required")
		return nil, false
	}
	return sess, true
}

func (h *DashboardHandler) sendSubmission(c *gin.Context, started bool, panel interface{}) {
	if !started {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Operation already running",
			"data":  panel,
		})
		return
	}
	status := http.StatusAccepted
	if wantsWait(c) {
		status = http.StatusOK
	}
	utils.SendDataResponse(c, status, panel)
}

func (h *DashboardHandler) sendValidationError(c *gin.Context, err error) bool {
	var validationErr *validator.ValidationError
	if !errors.As(err, &validationErr) {
		return false
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  validationErr.Message,
		"fields": validationErr.Fields,
	})
	return true
}

// sendBackendError maps a failed backend call. A backend 404 stays a 404; anything else is a bad gateway.
func (h *DashboardHandler) sendBackendError(c *gin.Context, err error, message string) {
	if client.StatusCodeOf(err) == http.StatusNotFound {
		utils.SendErrorResponse(c, http.StatusNotFound, "Not found")
		return
	}
	utils.SendErrorResponse(c, http.StatusBadGateway, message)
}

func wantsWait(c *gin.Context) bool {
	wait, _ := strconv.ParseBool(c.Query("wait"))
	return wait
}
