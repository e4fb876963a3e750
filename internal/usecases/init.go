package usecases

import (
	"time"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
)

// Usecase - единая точка входа для обработчиков HTTP
type Usecase struct {
	cfg       *config.AppConfig
	profile   *config.MachineProfile
	plc       interfaces.PlcLink
	camera    interfaces.CameraLink
	inference interfaces.InferenceRunner
	scans     interfaces.ScanMachine
	repo      interfaces.Repository
	events    interfaces.EventJournal
	agent     interfaces.AgentClient
	logger    *logging.Logger
}

// NewUsecases - конструктор для Usecase
func NewUsecases(
	cfg *config.AppConfig,
	profile *config.MachineProfile,
	plc interfaces.PlcLink,
	camera interfaces.CameraLink,
	inference interfaces.InferenceRunner,
	scans interfaces.ScanMachine,
	repo interfaces.Repository,
	events interfaces.EventJournal,
	agent interfaces.AgentClient,
	logger *logging.Logger,
) interfaces.Usecases {
	return &Usecase{
		cfg:       cfg,
		profile:   profile,
		plc:       plc,
		camera:    camera,
		inference: inference,
		scans:     scans,
		repo:      repo,
		events:    events,
		agent:     agent,
		logger:    logger.WithPrefix("USECASE"),
	}
}

const resultsListLimit = 20

var startedAt = time.Now()
