package inference_service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/services/camera_service"
	"github.com/iwtcode/inspectionService/internal/services/imaging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

// Frame - входной кадр прохода инференса
type Frame struct {
	Image image.Image
	JPEG  []byte // исходные байты, если кадр пришел сжатым
	Name  string // база имени файлов результата
}

type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
}

// CameraSource берет текущий кадр Camera Link
type CameraSource struct {
	camera interfaces.CameraLink
}

func NewCameraSource(camera interfaces.CameraLink) *CameraSource {
	return &CameraSource{camera: camera}
}

func (s *CameraSource) Next(context.Context) (Frame, error) {
	data, seq, err := s.camera.CurrentFrame()
	if err != nil {
		return Frame{}, err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return Frame{}, &apperrors.CameraError{Op: "frame", Reason: "corrupt frame", Err: err}
	}
	return Frame{Image: img, JPEG: data, Name: fmt.Sprintf("camera_%d", seq)}, nil
}

// CapturedSource выбирает снимок из каталога сохраненных кадров
// детерминированным генератором. Пустой каталог - синтетический кадр.
type CapturedSource struct {
	dir    string
	width  int
	height int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCapturedSource(dir string, seed int64) *CapturedSource {
	return &CapturedSource{dir: dir, width: 640, height: 480, rng: rand.New(rand.NewSource(seed))}
}

func (s *CapturedSource) Next(context.Context) (Frame, error) {
	files, _ := camera_service.ListImages(s.dir)

	s.mu.Lock()
	pick := -1
	if len(files) > 0 {
		pick = s.rng.Intn(len(files))
	}
	s.mu.Unlock()

	if pick < 0 {
		return Frame{Image: s.syntheticFrame(), Name: "synthetic"}, nil
	}

	path := files[pick]
	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return Frame{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Frame{Image: img, Name: name}, nil
}

func (s *CapturedSource) syntheticFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			v := uint8(90 + 60*x/s.width + 40*y/s.height)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v + 5, A: 255})
		}
	}
	return img
}
