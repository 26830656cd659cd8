package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/archmich514/kiog/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	unitHandler      *Unit
	recordingHandler *Recording
	answerHandler    *Answer
	questionHandler  *Question
	reportHandler    *Report
	debugHandler     *Debug
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	unitHandler *Unit,
	recordingHandler *Recording,
	answerHandler *Answer,
	questionHandler *Question,
	reportHandler *Report,
	debugHandler *Debug,
) *Router {
	return &Router{
		cfg:              cfg,
		unitHandler:      unitHandler,
		recordingHandler: recordingHandler,
		answerHandler:    answerHandler,
		questionHandler:  questionHandler,
		reportHandler:    reportHandler,
		debugHandler:     debugHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupUserRoutes(v1)
	rt.setupUnitRoutes(v1)
	rt.setupAnswerRoutes(v1)
	rt.setupRecordingRoutes(v1)
	rt.setupDebugRoutes(v1)
}

// setupUserRoutes configures user profile routes
func (rt *Router) setupUserRoutes(g *echo.Group) {
	userGroup := g.Group("/users")

	userGroup.POST("", rt.unitHandler.RegisterUser)
	userGroup.PUT("/:id/fcm-token", rt.unitHandler.SetFCMToken)
}

// setupUnitRoutes configures unit membership and per-unit resources
func (rt *Router) setupUnitRoutes(g *echo.Group) {
	unitGroup := g.Group("/units")

	unitGroup.POST("", rt.unitHandler.CreateUnit)
	unitGroup.GET("/:id", rt.unitHandler.GetUnit)
	unitGroup.POST("/:code/join", rt.unitHandler.JoinUnit)

	unitGroup.GET("/:id/questions", rt.questionHandler.GetCurrent)
	unitGroup.GET("/:id/reports/:date", rt.reportHandler.Get)

	unitGroup.POST("/:id/recordings", rt.recordingHandler.Upload)
	unitGroup.POST("/:id/answers", rt.answerHandler.Create)
	unitGroup.GET("/:id/answers", rt.answerHandler.ListForDay)
}

// setupAnswerRoutes configures answer interaction routes
func (rt *Router) setupAnswerRoutes(g *echo.Group) {
	answerGroup := g.Group("/answers")

	answerGroup.POST("/:id/predictions", rt.answerHandler.SubmitPrediction)
	answerGroup.POST("/:id/viewed", rt.answerHandler.MarkViewed)
}

// setupRecordingRoutes configures recording routes
func (rt *Router) setupRecordingRoutes(g *echo.Group) {
	recordingGroup := g.Group("/recordings")

	recordingGroup.GET("/:id", rt.recordingHandler.Get)
}

// setupDebugRoutes configures manual pipeline triggers
func (rt *Router) setupDebugRoutes(g *echo.Group) {
	debugGroup := g.Group("/debug")

	debugGroup.POST("/reports", rt.debugHandler.GenerateReport)
	debugGroup.POST("/questions", rt.debugHandler.GenerateQuestions)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
