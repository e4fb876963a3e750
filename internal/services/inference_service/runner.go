package inference_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	"github.com/iwtcode/inspectionService/internal/services/imaging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

const (
	ModeMock = "mock"
	ModeLive = "live"

	ResultURLPrefix = "/inference/result/"
	overlaySuffix   = "_overlay.png"
)

type Options struct {
	Mode       string
	Source     FrameSource
	Classifier Classifier
	Profile    config.InferenceProfile
	ResultsDir string
	Trigger    TriggerOptions
	Plc        interfaces.PlcLink
	Events     interfaces.EventRecorder
	Logger     *logging.Logger
}

// Runner выполняет не более одного прохода одновременно: второй вызов
// во время работы первого сразу получает ErrBusy.
type Runner struct {
	opts   Options
	logger *logging.Logger

	busy atomic.Bool
	seq  atomic.Uint64

	mu        sync.RWMutex
	latest    models.InferenceResult
	hasLatest bool
	listeners []func(models.InferenceResult)

	trigger *trigger
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Source == nil || opts.Classifier == nil {
		return nil, fmt.Errorf("для инференса нужны источник кадров и классификатор")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.ResultsDir == "" {
		opts.ResultsDir = "./result_images"
	}
	if err := os.MkdirAll(opts.ResultsDir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог результатов: %w", err)
	}
	r := &Runner{opts: opts, logger: opts.Logger.WithPrefix("INFERENCE")}
	r.trigger = newTrigger(r, opts.Trigger, opts.Plc, opts.Profile.TriggerDevice, r.logger)
	return r, nil
}

// NewInferenceService выбирает реализацию по INFERENCE_MODE
func NewInferenceService(cfg *config.AppConfig, profile *config.MachineProfile, camera interfaces.CameraLink, plc interfaces.PlcLink, events interfaces.EventJournal, logger *logging.Logger) (interfaces.InferenceRunner, error) {
	classIDs := make([]int, 0, len(profile.Inference.Classes))
	for _, c := range profile.Inference.Classes {
		classIDs = append(classIDs, c.ID)
	}

	opts := Options{
		Mode:       cfg.Inference.Mode,
		Profile:    profile.Inference,
		ResultsDir: cfg.Inference.ResultsDir,
		Trigger: TriggerOptions{
			Mode:     cfg.Inference.Trigger,
			Interval: time.Duration(cfg.Inference.TriggerIntervalMs) * time.Millisecond,
		},
		Plc:    plc,
		Events: events,
		Logger: logger,
	}
	switch cfg.Inference.Mode {
	case ModeLive:
		opts.Source = NewCameraSource(camera)
		opts.Classifier = NewHTTPClassifier(cfg.Inference.ModelURL, cfg.Inference.ImageSize, 30*time.Second)
	default:
		opts.Mode = ModeMock
		opts.Source = NewCapturedSource(cfg.Inference.CapturedDir, cfg.Inference.MockSeed)
		opts.Classifier = NewSyntheticClassifier(cfg.Inference.MockSeed, cfg.Inference.MockMaxDefects, classIDs)
	}
	return NewRunner(opts)
}

func (r *Runner) Mode() string { return r.opts.Mode }

// OnResult регистрирует получателя каждого успешного результата.
// Получатели вызываются синхронно в горутине прохода.
func (r *Runner) OnResult(listener func(models.InferenceResult)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, listener)
	r.mu.Unlock()
}

func (r *Runner) Run(ctx context.Context) (models.InferenceResult, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return models.InferenceResult{}, apperrors.ErrBusy
	}
	defer r.busy.Store(false)

	frame, err := r.opts.Source.Next(ctx)
	if err != nil {
		r.logger.Warn("No input frame for inference", "error", err)
		return models.InferenceResult{}, err
	}
	rgba := imaging.ToRGBA(frame.Image)

	started := time.Now()
	mask, err := r.opts.Classifier.Classify(ctx, rgba)
	elapsed := time.Since(started)
	if err != nil {
		r.logger.Error("Classifier failed", "classifier", r.opts.Classifier.Name(), "error", err)
		r.record(models.EventError, "Inference failed: "+err.Error())
		return models.InferenceResult{}, fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	if mask.Bounds().Dx() != rgba.Bounds().Dx() || mask.Bounds().Dy() != rgba.Bounds().Dy() {
		mask = imaging.ResizeNearest(mask, rgba.Bounds().Dx(), rgba.Bounds().Dy())
	}

	defects := ExtractDefects(mask, r.opts.Profile.Classes, r.opts.Profile.Severity)
	now := time.Now()
	result := models.InferenceResult{
		Success:         true,
		Timestamp:       now,
		InferenceTimeMs: float64(elapsed.Microseconds()) / 1000,
		Defects:         defects,
		Sequence:        r.seq.Add(1),
	}

	if err := r.save(&result, frame, rgba, mask); err != nil {
		r.logger.Error("Failed to save inference result", "error", err)
		return models.InferenceResult{}, err
	}
	if len(defects) == 0 {
		result.Message = "No defects detected"
	} else {
		result.Message = fmt.Sprintf("%d defect class(es) detected", len(defects))
	}

	r.mu.Lock()
	r.latest = result
	r.hasLatest = true
	listeners := append([]func(models.InferenceResult){}, r.listeners...)
	r.mu.Unlock()

	r.logger.Info("Inference completed", "seq", result.Sequence, "defects", len(defects), "time_ms", result.InferenceTimeMs)
	kind := models.EventSuccess
	if len(defects) > 0 {
		kind = models.EventWarning
	}
	r.record(kind, fmt.Sprintf("Inference #%d: %s", result.Sequence, result.Message))

	for _, l := range listeners {
		l(result)
	}
	return result, nil
}

// save пишет overlay, цветную маску, исходный кадр и метаданные
func (r *Runner) save(result *models.InferenceResult, frame Frame, rgba *image.RGBA, mask *image.Gray) error {
	base := fmt.Sprintf("%s_%s_%d", sanitize(frame.Name), result.Timestamp.Format("20060102_150405"), result.Sequence)

	overlay, err := imaging.EncodePNG(Overlay(rgba, mask, r.opts.Profile.Classes, r.opts.Profile.OverlayAlpha))
	if err != nil {
		return err
	}
	colorMask, err := imaging.EncodePNG(ColorMask(mask, r.opts.Profile.Classes))
	if err != nil {
		return err
	}
	source := frame.JPEG
	if source == nil {
		if source, err = imaging.EncodeJPEG(rgba, 92); err != nil {
			return err
		}
	}

	files := map[string][]byte{
		base + overlaySuffix: overlay,
		base + "_mask.png":   colorMask,
		base + "_source.jpg": source,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(r.opts.ResultsDir, name), data, 0644); err != nil {
			return err
		}
	}

	result.OverlayURL = ResultURLPrefix + base + overlaySuffix
	result.MaskURL = ResultURLPrefix + base + "_mask.png"
	result.SourceImage = base + "_source.jpg"
	result.OverlayPath = filepath.Join(r.opts.ResultsDir, base+overlaySuffix)
	result.SourcePath = filepath.Join(r.opts.ResultsDir, base+"_source.jpg")

	meta, err := json.MarshalIndent(struct {
		Timestamp       time.Time       `json:"timestamp"`
		Source          string          `json:"source"`
		Classifier      string          `json:"classifier"`
		InferenceTimeMs float64         `json:"inference_time_ms"`
		Defects         []models.Defect `json:"defects"`
	}{result.Timestamp, frame.Name, r.opts.Classifier.Name(), result.InferenceTimeMs, result.Defects}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.opts.ResultsDir, base+"_meta.json"), meta, 0644)
}

func (r *Runner) Latest() (models.InferenceResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.hasLatest
}

// ResultPath разрешает имя файла результата в путь внутри каталога результатов
func (r *Runner) ResultPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", apperrors.Validationf("invalid result name %q", name)
	}
	path := filepath.Join(r.opts.ResultsDir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.ErrDataNotFound
		}
		return "", err
	}
	return path, nil
}

// ListResults возвращает overlay-изображения, новые первыми
func (r *Runner) ListResults(limit int) ([]models.ResultImage, error) {
	entries, err := os.ReadDir(r.opts.ResultsDir)
	if err != nil {
		return nil, err
	}
	results := make([]models.ResultImage, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), overlaySuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		results = append(results, models.ResultImage{
			Filename: e.Name(),
			URL:      ResultURLPrefix + e.Name(),
			Created:  info.ModTime(),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Created.Equal(results[j].Created) {
			return results[i].Filename > results[j].Filename
		}
		return results[i].Created.After(results[j].Created)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ClearResults удаляет все файлы результатов. Последний результат в памяти сохраняется.
func (r *Runner) ClearResults() (int, error) {
	entries, err := os.ReadDir(r.opts.ResultsDir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(r.opts.ResultsDir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	r.logger.Info("Inference results cleared", "files", removed)
	return removed, nil
}

func (r *Runner) StartTrigger() { r.trigger.start() }

func (r *Runner) StopTrigger() { r.trigger.stop() }

func (r *Runner) record(kind models.EventType, msg string) {
	if r.opts.Events != nil {
		r.opts.Events.Record(kind, msg)
	}
}

func sanitize(name string) string {
	if name == "" {
		return "frame"
	}
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, name)
}
