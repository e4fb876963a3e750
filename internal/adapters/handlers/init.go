package handlers

import (
	"net/http"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	"github.com/iwtcode/inspectionService/internal/middleware/swagger"
	"github.com/iwtcode/inspectionService/internal/services/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase  interfaces.Usecases
	hub      *events.Hub
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, hub *events.Hub, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер.
// Пути совпадают с теми, что опрашивает UI, без префикса версии.
func ProvideRouter(h *Handler, cfg *config.AppConfig, swagCfg *swagger.Config) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(cfg.CorsOrigins))

	// Swagger
	swagger.Setup(router, swagCfg)

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	plc := router.Group("/plc")
	{
		plc.GET("/status", h.PlcStatus)
		plc.POST("/connect", h.PlcConnect)
		plc.POST("/write", h.PlcWrite)
		plc.POST("/read", h.PlcRead)
		plc.POST("/scan-start", h.ScanStart)
		plc.POST("/scan-stop", h.ScanStop)
		plc.POST("/grid-one", h.GridOne)
		plc.POST("/cycle-reset", h.CycleReset)
		plc.POST("/homing-start", h.HomingStart)
		plc.GET("/control-status", h.ControlStatus)
		plc.GET("/heartbeat", h.Heartbeat)
		plc.GET("/latest-inference", h.LatestInference)
	}

	camera := router.Group("/camera")
	{
		camera.POST("/connect", h.CameraConnect)
		camera.POST("/disconnect", h.CameraDisconnect)
		camera.GET("/stream", h.CameraStream)
		camera.GET("/snapshot", h.CameraSnapshot)
		camera.GET("/fps", h.CameraFPS)
		camera.GET("/status", h.CameraStatus)
		camera.GET("/settings", h.GetCameraSettings)
		camera.POST("/settings", h.UpdateCameraSettings)
	}

	servo := router.Group("/servo")
	{
		servo.POST("/enable", h.ServoEnable)
		servo.POST("/move", h.ServoMove)
		servo.GET("/speeds", h.GetServoSpeeds)
		servo.POST("/speeds", h.SetServoSpeeds)
	}

	inference := router.Group("/inference")
	{
		inference.POST("/run", h.RunInference)
		inference.POST("/mock-run", h.RunInference)
		inference.GET("/mock-latest", h.LatestInference)
		inference.GET("/result/:name", h.InferenceResult)
		inference.GET("/results", h.ListInferenceResults)
		inference.DELETE("/results", h.ClearInferenceResults)
	}

	scans := router.Group("/scans")
	{
		scans.GET("/list", h.ListScans)
		scans.GET("/:id", h.GetScan)
		scans.GET("/:id/image/:name", h.ScanImage)
	}

	router.GET("/events", h.Events)
	router.GET("/events/ws", h.EventsSocket)
	router.GET("/health", h.Health)
	router.GET("/api/health", h.Health)
	router.POST("/api/troubleshoot", h.Troubleshoot)

	return router
}
