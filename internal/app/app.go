package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iwtcode/inspectionService/internal/adapters/handlers"
	"github.com/iwtcode/inspectionService/internal/adapters/repositories/database"
	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	"github.com/iwtcode/inspectionService/internal/middleware/swagger"
	"github.com/iwtcode/inspectionService/internal/services/agent"
	"github.com/iwtcode/inspectionService/internal/services/camera_service"
	"github.com/iwtcode/inspectionService/internal/services/events"
	"github.com/iwtcode/inspectionService/internal/services/inference_service"
	"github.com/iwtcode/inspectionService/internal/services/plc_service"
	"github.com/iwtcode/inspectionService/internal/services/scan_service"
	"github.com/iwtcode/inspectionService/internal/usecases"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeEventJournal),
		fx.Invoke(InvokePlcLink),
		fx.Invoke(InvokeRestorePlcConnection),
		fx.Invoke(InvokeCamera),
		fx.Invoke(InvokeScanMachine),
		fx.Invoke(InvokeInferenceTrigger),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(
		config.LoadConfiguration,
		config.LoadMachineProfile,
	),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "InspectionServiceApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(
		database.NewRepository,
		func(r interfaces.Repository) interfaces.ScanRecordRepository { return r },
		func(r interfaces.Repository) interfaces.SettingsRepository { return r },
	),
)

// ProducerModule - журнал событий и его внешние приемники (Kafka, MQTT, websocket)
var ProducerModule = fx.Module("producer_module",
	fx.Provide(
		events.NewHub,
		events.NewSinks,
		events.NewEventJournal,
		func(j *events.Journal) interfaces.EventJournal { return j },
	),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		plc_service.NewPlcService,
		camera_service.NewCameraService,
		inference_service.NewInferenceService,
		scan_service.NewScanService,
		agent.NewAgentClient,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig() *swagger.Config {
	return &swagger.Config{
		Enabled: true,
		Path:    "/swagger",
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeEventJournal закрывает приемники событий при остановке.
func InvokeEventJournal(lc fx.Lifecycle, journal *events.Journal, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing event journal and sinks...")
			return journal.Close()
		},
	})
}

// InvokePlcLink запускает фоновую проверку связи с ПЛК.
func InvokePlcLink(lc fx.Lifecycle, plc interfaces.PlcLink, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			plc.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing PLC link...")
			return plc.Close()
		},
	})
}

// InvokeRestorePlcConnection восстанавливает подключение к ПЛК при старте.
// Недоступный ПЛК не мешает запуску сервиса.
func InvokeRestorePlcConnection(lc fx.Lifecycle, uc interfaces.Usecases, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				restoreCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				status, err := uc.RestorePlcConnection(restoreCtx)
				switch {
				case errors.Is(err, apperrors.ErrDataNotFound):
					logger.Info("No saved PLC endpoint, waiting for /plc/connect")
				case err != nil:
					logger.Warn("Failed to restore PLC connection", "error", err)
				default:
					logger.Info("PLC connection restored", "ip", status.IP, "port", status.Port)
				}
			}()
			return nil
		},
	})
}

// InvokeCamera открывает камеру при CAMERA_AUTOCONNECT и закрывает при остановке.
func InvokeCamera(lc fx.Lifecycle, cfg *config.AppConfig, camera interfaces.CameraLink, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Camera.AutoConnect {
				return nil
			}
			if err := camera.Connect(ctx); err != nil {
				logger.Warn("Camera autoconnect failed, camera stays offline", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return camera.Disconnect()
		},
	})
}

// InvokeScanMachine запускает сверку состояния сканирования с ПЛК.
func InvokeScanMachine(lc fx.Lifecycle, scans interfaces.ScanMachine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scans.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scans.Stop()
			return nil
		},
	})
}

// InvokeInferenceTrigger запускает автоматический запуск инференса (таймер или бит ПЛК)
// и публикует каждый результат подписчикам.
func InvokeInferenceTrigger(lc fx.Lifecycle, runner interfaces.InferenceRunner, journal interfaces.EventJournal, logger *logging.Logger) {
	runner.OnResult(func(result models.InferenceResult) {
		journal.Publish(interfaces.SinkKindInference, strconv.FormatUint(result.Sequence, 10), result)
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Inference runner ready", "mode", runner.Mode())
			runner.StartTrigger()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			runner.StopTrigger()
			return nil
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     h,
		ReadTimeout: 10 * time.Second,
		// WriteTimeout не задан: /camera/stream и /events/ws держат соединение открытым
		IdleTimeout: 60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
