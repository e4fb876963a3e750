package scan_service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

type Options struct {
	Plc               interfaces.PlcLink
	Profile           *config.MachineProfile
	Archive           interfaces.ScanRecordRepository
	Events            interfaces.EventJournal
	DataDir           string
	ReconcileInterval time.Duration
	Logger            *logging.Logger
}

type coils struct {
	scan, grid, reset, homing models.DeviceAddress
	homingDone                *models.DeviceAddress
}

// Machine - автомат состояний цикла сканирования. Единственный, кто пишет
// управляющие биты сканирования. Команды выполняются строго по одной:
// cmdMu удерживается на время обращения к ПЛК, поэтому частичный переход
// снаружи не наблюдается.
type Machine struct {
	opts   Options
	logger *logging.Logger
	coils  coils

	cmdMu sync.Mutex

	mu       sync.RWMutex
	state    models.ScanState
	prior    models.ScanState // состояние до GridTriggered
	gridAt   time.Time
	homingAt time.Time
	session  *session
	observed models.ControlStatus

	stop      chan struct{}
	done      chan struct{}
	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewMachine(opts Options) (*Machine, error) {
	if opts.Plc == nil || opts.Profile == nil {
		return nil, fmt.Errorf("автомату сканирования нужны ПЛК и профиль станка")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.DataDir == "" {
		opts.DataDir = "./data/scans"
	}
	if opts.ReconcileInterval <= 0 {
		opts.ReconcileInterval = time.Second
	}

	var c coils
	var err error
	parse := func(key, name string, dst *models.DeviceAddress) {
		if err != nil {
			return
		}
		var addr models.DeviceAddress
		if addr, err = opts.Plc.ParseAddress(name); err != nil {
			err = fmt.Errorf("некорректный бит %s в профиле станка: %w", key, err)
			return
		}
		if !addr.IsCoil() {
			err = fmt.Errorf("%s в профиле станка должен быть битом, получено '%s'", key, name)
			return
		}
		*dst = addr
	}
	parse("coils.scan", opts.Profile.Coils.Scan, &c.scan)
	parse("coils.grid", opts.Profile.Coils.Grid, &c.grid)
	parse("coils.reset", opts.Profile.Coils.Reset, &c.reset)
	parse("coils.homing", opts.Profile.Coils.Homing, &c.homing)
	if opts.Profile.Coils.HomingDone != "" {
		var done models.DeviceAddress
		parse("coils.homing_done", opts.Profile.Coils.HomingDone, &done)
		c.homingDone = &done
	}
	if err != nil {
		return nil, err
	}

	return &Machine{
		opts:   opts,
		logger: opts.Logger.WithPrefix("SCAN"),
		coils:  c,
		state:  models.ScanIdle,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// NewScanService собирает автомат из конфигурации и подписывает его на результаты инференса
func NewScanService(cfg *config.AppConfig, profile *config.MachineProfile, plc interfaces.PlcLink, archive interfaces.ScanRecordRepository, inference interfaces.InferenceRunner, events interfaces.EventJournal, logger *logging.Logger) (interfaces.ScanMachine, error) {
	m, err := NewMachine(Options{
		Plc:               plc,
		Profile:           profile,
		Archive:           archive,
		Events:            events,
		DataDir:           cfg.Scans.DataDir,
		ReconcileInterval: time.Duration(cfg.Scans.ReconcileIntervalMs) * time.Millisecond,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}
	inference.OnResult(m.RecordInference)
	return m, nil
}

func (m *Machine) State() models.ScanState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session возвращает текущий цикл или nil, если цикла нет
func (m *Machine) Session() *models.ScanSessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	info := m.session.info()
	info.State = m.state
	return &info
}

// ScanStart запускает цикл. Допустим только из Idle.
func (m *Machine) ScanStart(ctx context.Context) error {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	if state := m.State(); state != models.ScanIdle {
		return apperrors.Conflictf("scan-start requires Idle, machine is %s", state)
	}
	if err := m.opts.Plc.WriteBit(ctx, m.coils.scan, true); err != nil {
		m.logger.Warn("Scan start failed", "error", err)
		return err
	}

	m.mu.Lock()
	m.session = newSession(uuid.NewString(), time.Now(), m.opts.DataDir)
	m.setState(models.ScanScanning)
	id := m.session.id
	m.mu.Unlock()

	m.logger.Info("Scan started", "scan_id", id)
	m.record(models.EventSuccess, "Scan started")
	return nil
}

// ScanStop всегда пишет 0 в бит сканирования, поэтому повторный вызов безопасен
func (m *Machine) ScanStop(ctx context.Context) error {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()
	return m.stopLocked(ctx)
}

func (m *Machine) stopLocked(ctx context.Context) error {
	if err := m.opts.Plc.WriteBit(ctx, m.coils.scan, false); err != nil {
		m.logger.Warn("Scan stop failed", "error", err)
		return err
	}

	m.mu.Lock()
	state := m.state
	var finished *session
	switch state {
	case models.ScanScanning, models.ScanGridTriggered:
		finished = m.detachSession()
		m.setState(models.ScanIdle)
	}
	m.mu.Unlock()

	if state == models.ScanScanning || state == models.ScanGridTriggered {
		m.logger.Info("Scan stopped", "from", state)
		m.record(models.EventInfo, "Scan stopped")
	}
	m.archive(finished)
	return nil
}

// GridOne подает импульс на съемку сетки. Повторный запуск во время
// GridTriggered отклоняется без обращения к ПЛК.
func (m *Machine) GridOne(ctx context.Context) error {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	state := m.State()
	switch state {
	case models.ScanIdle, models.ScanScanning:
	default:
		return apperrors.Conflictf("grid-one not allowed while %s", state)
	}
	if err := m.opts.Plc.Trigger(ctx, m.coils.grid); err != nil {
		m.logger.Warn("Grid trigger failed", "error", err)
		return err
	}

	m.mu.Lock()
	m.prior = state
	m.gridAt = time.Now()
	m.setState(models.ScanGridTriggered)
	m.mu.Unlock()

	m.logger.Info("Grid triggered", "from", state)
	m.record(models.EventInfo, "Grid capture triggered")
	return nil
}

// CycleReset допустим из любого состояния. Накопленные снимки текущего цикла отбрасываются.
func (m *Machine) CycleReset(ctx context.Context) error {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	if err := m.opts.Plc.Trigger(ctx, m.coils.reset); err != nil {
		m.logger.Warn("Cycle reset failed", "error", err)
		return err
	}

	m.mu.Lock()
	discarded := m.detachSession()
	from := m.state
	m.setState(models.ScanIdle)
	m.mu.Unlock()

	if discarded != nil {
		discarded.discard()
		m.logger.Info("Scan session discarded by reset", "scan_id", discarded.id, "images", len(discarded.images))
	}
	m.logger.Info("Cycle reset", "from", from)
	m.record(models.EventWarning, "Cycle reset")
	return nil
}

// HomingStart допустим только из Idle. Возврат в Idle - по биту завершения или по таймауту.
func (m *Machine) HomingStart(ctx context.Context) error {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	if state := m.State(); state != models.ScanIdle {
		return apperrors.Conflictf("homing requires Idle, machine is %s", state)
	}
	if err := m.opts.Plc.Trigger(ctx, m.coils.homing); err != nil {
		m.logger.Warn("Homing start failed", "error", err)
		return err
	}

	m.mu.Lock()
	m.homingAt = time.Now()
	m.setState(models.ScanHoming)
	m.mu.Unlock()

	m.logger.Info("Homing started")
	m.record(models.EventInfo, "Homing started")
	return nil
}

// Write - универсальная запись. Бит сканирования направляется через
// ScanStart/ScanStop, чтобы локальное состояние не расходилось с ПЛК.
func (m *Machine) Write(ctx context.Context, device string, value int) error {
	addr, err := m.opts.Plc.ParseAddress(device)
	if err != nil {
		return err
	}

	if addr.IsCoil() && addr.Name == m.coils.scan.Name {
		switch {
		case value == 0:
			return m.ScanStop(ctx)
		case value == 1 && m.State() == models.ScanIdle:
			err := m.ScanStart(ctx)
			if err == nil || !isConflict(err) {
				return err
			}
			// состояние успело смениться, пишем как есть
		}
	}

	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	if addr.IsCoil() {
		if value != 0 && value != 1 {
			return apperrors.Validationf("bit device %s accepts 0 or 1, got %d", addr.Name, value)
		}
		return m.opts.Plc.WriteBit(ctx, addr, value == 1)
	}
	return m.opts.Plc.WriteWord(ctx, addr, value)
}

// setState вызывается под m.mu
func (m *Machine) setState(state models.ScanState) {
	if m.state != state {
		m.logger.Debug("Scan state changed", "from", m.state, "to", state)
	}
	m.state = state
	m.observed.State = state
}

// detachSession вызывается под m.mu
func (m *Machine) detachSession() *session {
	s := m.session
	m.session = nil
	return s
}

func (m *Machine) record(kind models.EventType, msg string) {
	if m.opts.Events != nil {
		m.opts.Events.Record(kind, msg)
	}
}
