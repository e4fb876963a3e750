package camera_service

import (
	"context"
	"fmt"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
)

// Driver - источник кадров. Grab возвращает один JPEG и может блокироваться до прихода кадра.
// Close должен быть безопасен при параллельном Grab и прерывать его.
type Driver interface {
	Name() string
	Open(ctx context.Context) error
	Grab(ctx context.Context) ([]byte, error)
	Apply(settings models.CameraSettings) error
	Close() error
}

// NewDriver выбирает драйвер по CAMERA_DRIVER
func NewDriver(cfg config.CameraConfig) (Driver, error) {
	switch cfg.Driver {
	case "synthetic", "":
		return NewSyntheticDriver(640, 480, cfg.JPEGQuality), nil
	case "directory":
		return NewDirectoryDriver(cfg.Source, cfg.JPEGQuality), nil
	case "mjpeg":
		return NewMJPEGDriver(cfg.Source), nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер камеры '%s'", cfg.Driver)
	}
}

// gainFactor переводит экспозицию (мкс) и усиление (дБ) в множитель яркости
func gainFactor(s models.CameraSettings) float64 {
	exposure := s.Exposure
	if s.AutoExposure || exposure <= 0 {
		exposure = defaultExposure
	}
	f := exposure / defaultExposure
	f *= 1 + s.Gain/12
	if f < 0.1 {
		f = 0.1
	}
	if f > 4 {
		f = 4
	}
	return f
}
