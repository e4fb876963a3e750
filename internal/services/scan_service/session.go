package scan_service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

// session - накопленные снимки текущего цикла
type session struct {
	id        string
	startedAt time.Time
	dir       string
	next      int
	images    []string
	defects   []entities.ScanDefect

	// copies - незавершенные копирования RecordInference
	copies sync.WaitGroup
}

func newSession(id string, startedAt time.Time, dataDir string) *session {
	return &session{id: id, startedAt: startedAt, dir: filepath.Join(dataDir, id)}
}

func (s *session) info() models.ScanSessionInfo {
	started := s.startedAt
	return models.ScanSessionInfo{
		ID:          s.id,
		StartedAt:   &started,
		ImageCount:  len(s.images),
		DefectCount: s.defectCount(),
	}
}

func (s *session) defectCount() int {
	total := 0
	for _, d := range s.defects {
		total += d.DefectCount
	}
	return total
}

// record превращает завершенный цикл в запись архива
func (s *session) record(finishedAt time.Time) *entities.ScanRecord {
	status := entities.ScanStatusPass
	if s.defectCount() > 0 {
		status = entities.ScanStatusFail
	}
	return &entities.ScanRecord{
		ID:          s.id,
		CreatedAt:   finishedAt,
		Date:        finishedAt.Format("2006-01-02"),
		Time:        finishedAt.Format("15:04:05"),
		ImageCount:  len(s.images),
		DefectCount: s.defectCount(),
		Status:      status,
		Images:      append([]string{}, s.images...),
		Defects:     append([]entities.ScanDefect{}, s.defects...),
	}
}

// discard удаляет каталог цикла после того, как завершились все начатые копирования
func (s *session) discard() {
	s.copies.Wait()
	_ = os.RemoveAll(s.dir)
}

// RecordInference копирует результат в каталог текущего цикла, если цикл идет.
// Вызывается в горутине инференса, файлы копируются без удержания блокировки.
func (m *Machine) RecordInference(result models.InferenceResult) {
	if !result.Success || result.SourcePath == "" {
		return
	}

	m.mu.Lock()
	s := m.session
	if s == nil || (m.state != models.ScanScanning && m.state != models.ScanGridTriggered) {
		m.mu.Unlock()
		return
	}
	s.next++
	index := s.next
	s.copies.Add(1)
	m.mu.Unlock()
	defer s.copies.Done()

	image := fmt.Sprintf("img_%03d%s", index, filepath.Ext(result.SourcePath))
	overlay := fmt.Sprintf("img_%03d_overlay.png", index)
	if err := copyInto(s.dir, image, result.SourcePath); err != nil {
		m.logger.Error("Failed to store scan image", "scan_id", s.id, "error", err)
		_ = os.Remove(filepath.Join(s.dir, image))
		return
	}
	overlayURL := ""
	if result.OverlayPath != "" {
		if err := copyInto(s.dir, overlay, result.OverlayPath); err != nil {
			m.logger.Warn("Failed to store scan overlay", "scan_id", s.id, "error", err)
		} else {
			overlayURL = "/scans/" + s.id + "/image/" + overlay
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != s {
		// цикл уже в архиве или отброшен: файлы без записи не оставляем
		_ = os.Remove(filepath.Join(s.dir, image))
		_ = os.Remove(filepath.Join(s.dir, overlay))
		m.logger.Debug("Scan closed before image was stored", "scan_id", s.id, "image", image)
		return
	}
	s.images = append(s.images, image)
	s.defects = append(s.defects, entities.ScanDefect{
		Image:         image,
		OverlayURL:    overlayURL,
		DefectCount:   len(result.Defects),
		DefectDetails: append([]models.Defect{}, result.Defects...),
	})
	m.logger.Debug("Scan image stored", "scan_id", s.id, "image", image, "defects", len(result.Defects))
}

// archive пишет завершенный цикл в архив. Цикл без снимков не архивируется.
func (m *Machine) archive(s *session) {
	if s == nil {
		return
	}
	if len(s.images) == 0 {
		s.discard()
		m.logger.Info("Scan finished without images, nothing archived", "scan_id", s.id)
		return
	}
	rec := s.record(time.Now())
	if m.opts.Archive == nil {
		m.logger.Warn("No scan archive configured", "scan_id", s.id)
		return
	}
	if err := m.opts.Archive.Create(rec); err != nil {
		m.logger.Error("Failed to archive scan", "scan_id", s.id, "error", err)
		m.record(models.EventError, "Failed to archive scan "+s.id+": "+err.Error())
		return
	}
	m.logger.Info("Scan archived", "scan_id", rec.ID, "images", rec.ImageCount, "defects", rec.DefectCount, "status", rec.Status)
	kind := models.EventSuccess
	if rec.Status == entities.ScanStatusFail {
		kind = models.EventWarning
	}
	m.record(kind, fmt.Sprintf("Scan %s archived: %d image(s), %s", rec.ID, rec.ImageCount, rec.Status))
	if m.opts.Events != nil {
		m.opts.Events.Publish(interfaces.SinkKindScan, rec.ID, rec)
	}
}

// ImagePath разрешает имя снимка архива в путь на диске
func (m *Machine) ImagePath(scanID, name string) (string, error) {
	if _, err := uuid.Parse(scanID); err != nil {
		return "", apperrors.Validationf("invalid scan id %q", scanID)
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", apperrors.Validationf("invalid image name %q", name)
	}
	path := filepath.Join(m.opts.DataDir, scanID, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.ErrDataNotFound
		}
		return "", err
	}
	return path, nil
}

func copyInto(dir, name, src string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func isConflict(err error) bool {
	return errors.Is(err, apperrors.ErrConflict)
}
