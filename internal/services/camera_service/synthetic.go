package camera_service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/services/imaging"
)

// SyntheticDriver рисует тестовую таблицу с бегущей полосой и номером кадра
type SyntheticDriver struct {
	width, height int
	quality       int

	mu       sync.Mutex
	open     bool
	frame    uint64
	settings models.CameraSettings
}

func NewSyntheticDriver(width, height, quality int) *SyntheticDriver {
	return &SyntheticDriver{width: width, height: height, quality: quality}
}

func (d *SyntheticDriver) Name() string { return "synthetic" }

func (d *SyntheticDriver) Open(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	return nil
}

func (d *SyntheticDriver) Grab(context.Context) ([]byte, error) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil, errDriverClosed
	}
	d.frame++
	n := d.frame
	k := gainFactor(d.settings)
	d.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	bar := int(n*8) % d.width
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			v := 60 + 120*float64(x)/float64(d.width)
			if x >= bar && x < bar+24 {
				v = 230
			}
			c := uint8(clamp255(v * k))
			img.SetRGBA(x, y, color.RGBA{R: c, G: c, B: uint8(clamp255(float64(c) + 10)), A: 255})
		}
	}
	imaging.Label(img, fmt.Sprintf("SYNTHETIC #%d %s", n, time.Now().Format("15:04:05.000")), color.RGBA{R: 255, G: 200, A: 255})
	return imaging.EncodeJPEG(img, d.quality)
}

func (d *SyntheticDriver) Apply(settings models.CameraSettings) error {
	d.mu.Lock()
	d.settings = settings
	d.mu.Unlock()
	return nil
}

func (d *SyntheticDriver) Close() error {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
	return nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
