package camera_service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

const (
	defaultExposure = 5000
	maxGain         = 48

	maxGrabFailures = 5
	staleAfter      = 2 * time.Second
)

var errDriverClosed = errors.New("driver closed")

type Options struct {
	Driver   Driver
	MaxFPS   int
	Settings interfaces.SettingsRepository
	Events   interfaces.EventRecorder
	Logger   *logging.Logger
}

// Link владеет драйвером камеры. Кадры захватывает одна горутина,
// потребители получают последний кадр без ожидания.
type Link struct {
	opts   Options
	logger *logging.Logger

	// mu сериализует Connect/Disconnect. Читатели кадров его не берут.
	mu        sync.Mutex
	running   bool
	opening   bool
	abortOpen bool
	cancel    context.CancelFunc
	done      chan struct{}

	open    atomic.Bool
	lost    atomic.Bool
	lastErr atomic.Value // string

	slot frameSlot
	fps  *fpsMeter

	settingsMu sync.RWMutex
	settings   models.CameraSettings
}

func NewLink(opts Options) *Link {
	if opts.MaxFPS <= 0 {
		opts.MaxFPS = 30
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	l := &Link{
		opts:     opts,
		logger:   opts.Logger.WithPrefix("CAMERA"),
		fps:      newFPSMeter(30),
		settings: models.CameraSettings{Exposure: defaultExposure},
	}
	l.lastErr.Store("")

	if opts.Settings != nil {
		saved, err := opts.Settings.GetCameraSettings()
		switch {
		case err == nil:
			l.settings = models.CameraSettings{Exposure: saved.Exposure, Gain: saved.Gain, AutoExposure: saved.AutoExposure}
		case !errors.Is(err, apperrors.ErrDataNotFound):
			l.logger.Warn("Failed to load saved camera settings, using defaults", "error", err)
		}
	}
	return l
}

// NewCameraService собирает Link с драйвером из конфигурации
func NewCameraService(cfg *config.AppConfig, settings interfaces.SettingsRepository, events interfaces.EventJournal, logger *logging.Logger) (interfaces.CameraLink, error) {
	driver, err := NewDriver(cfg.Camera)
	if err != nil {
		return nil, err
	}
	return NewLink(Options{
		Driver:   driver,
		MaxFPS:   cfg.Camera.MaxFPS,
		Settings: settings,
		Events:   events,
		Logger:   logger,
	}), nil
}

// Connect открывает драйвер вне блокировки: пока идет открытие,
// CurrentFrame, FPS и Status отвечают сразу.
func (l *Link) Connect(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		if !l.lost.Load() {
			l.mu.Unlock()
			return nil
		}
		l.teardown()
	}
	if l.opening {
		l.mu.Unlock()
		return &apperrors.CameraError{Op: "connect", Reason: "busy", Err: errors.New("connect already in progress")}
	}
	l.opening = true
	l.abortOpen = false
	l.mu.Unlock()

	err := l.opts.Driver.Open(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.opening = false
	if err == nil && l.abortOpen {
		_ = l.opts.Driver.Close()
		err = errors.New("disconnect requested during open")
	}
	if err != nil {
		camErr := &apperrors.CameraError{Op: "connect", Reason: "device not found", Err: err}
		l.lastErr.Store(camErr.Error())
		l.logger.Warn("Camera open failed", "driver", l.opts.Driver.Name(), "error", err)
		return camErr
	}
	if err := l.opts.Driver.Apply(l.Settings()); err != nil {
		l.logger.Debug("Driver ignored camera settings", "error", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running = true
	l.lost.Store(false)
	l.lastErr.Store("")
	l.slot.reset()
	l.fps.reset()
	l.open.Store(true)

	go l.grabLoop(loopCtx, l.done)

	l.logger.Info("Camera connected", "driver", l.opts.Driver.Name())
	l.record(models.EventSuccess, "Camera connected")
	return nil
}

func (l *Link) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.opening {
		l.abortOpen = true
	}
	if !l.running {
		return nil
	}
	l.teardown()
	l.logger.Info("Camera disconnected")
	l.record(models.EventInfo, "Camera disconnected")
	return nil
}

// teardown вызывается под l.mu. Close драйвера прерывает зависший Grab,
// поэтому ожидание done ограничено.
func (l *Link) teardown() {
	l.open.Store(false)
	l.cancel()
	if err := l.opts.Driver.Close(); err != nil {
		l.logger.Debug("Camera driver close failed", "error", err)
	}
	<-l.done
	l.running = false
	l.slot.reset()
	l.fps.reset()
}

func (l *Link) grabLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(l.opts.MaxFPS))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := l.opts.Driver.Grab(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			failures++
			l.logger.Debug("Frame grab failed", "failures", failures, "error", err)
			if failures >= maxGrabFailures {
				camErr := &apperrors.CameraError{Op: "grab", Reason: "disconnected mid-stream", Err: err}
				l.open.Store(false)
				l.lost.Store(true)
				l.lastErr.Store(camErr.Error())
				l.logger.Error("Camera lost", "error", err)
				l.record(models.EventError, camErr.Error())
				return
			}
			continue
		}

		failures = 0
		now := time.Now()
		l.slot.store(frame, now)
		l.fps.mark(now)
	}
}

func (l *Link) isOpen() bool {
	return l.open.Load()
}

// CurrentFrame возвращает последний кадр и его номер, не дожидаясь нового
func (l *Link) CurrentFrame() ([]byte, uint64, error) {
	if !l.isOpen() {
		return nil, 0, apperrors.ErrNoFrame
	}
	data, seq, _ := l.slot.load()
	if data == nil {
		return nil, 0, apperrors.ErrNoFrame
	}
	return data, seq, nil
}

func (l *Link) FPS() models.CameraFPS {
	if !l.isOpen() {
		return models.CameraFPS{IsOpen: false, FPS: 0}
	}
	return models.CameraFPS{IsOpen: true, FPS: l.fps.rate(time.Now(), staleAfter)}
}

func (l *Link) Status() models.CameraStatus {
	open := l.isOpen()
	_, _, at := l.slot.load()
	return models.CameraStatus{
		IsOpen:     open,
		IsGrabbing: open && !at.IsZero() && time.Since(at) < staleAfter,
		Driver:     l.opts.Driver.Name(),
		Error:      l.lastErr.Load().(string),
	}
}

func (l *Link) Settings() models.CameraSettings {
	l.settingsMu.RLock()
	defer l.settingsMu.RUnlock()
	return l.settings
}

// ApplySettings сохраняет настройки и применяет их к открытой камере.
// Возвращает false, если камера недоступна и настройки только сохранены.
func (l *Link) ApplySettings(s models.CameraSettings) (bool, error) {
	if !s.AutoExposure && s.Exposure <= 0 {
		return false, apperrors.Validationf("exposure must be positive, got %v", s.Exposure)
	}
	if s.Gain < 0 || s.Gain > maxGain {
		return false, apperrors.Validationf("gain must be within 0..%d, got %v", maxGain, s.Gain)
	}

	if l.opts.Settings != nil {
		if err := l.opts.Settings.SaveCameraSettings(entities.NewCameraSettings(s.Exposure, s.Gain, s.AutoExposure)); err != nil {
			return false, fmt.Errorf("не удалось сохранить настройки камеры: %w", err)
		}
	}

	l.settingsMu.Lock()
	l.settings = s
	l.settingsMu.Unlock()

	if !l.isOpen() {
		return false, nil
	}
	if err := l.opts.Driver.Apply(s); err != nil {
		l.logger.Warn("Camera rejected settings", "error", err)
		return false, nil
	}
	return true, nil
}

func (l *Link) record(kind models.EventType, msg string) {
	if l.opts.Events != nil {
		l.opts.Events.Record(kind, msg)
	}
}
