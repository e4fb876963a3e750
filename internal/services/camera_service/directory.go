package camera_service

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/services/imaging"
)

const maxFrameWidth = 1280

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// DirectoryDriver по кругу отдает снимки из каталога, как камера на стенде без станка
type DirectoryDriver struct {
	dir     string
	quality int

	mu       sync.Mutex
	files    []string
	next     int
	settings models.CameraSettings
}

func NewDirectoryDriver(dir string, quality int) *DirectoryDriver {
	return &DirectoryDriver{dir: dir, quality: quality}
}

func (d *DirectoryDriver) Name() string { return "directory" }

func (d *DirectoryDriver) Open(context.Context) error {
	files, err := ListImages(d.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("в каталоге '%s' нет изображений", d.dir)
	}
	d.mu.Lock()
	d.files = files
	d.next = 0
	d.mu.Unlock()
	return nil
}

func (d *DirectoryDriver) Grab(context.Context) ([]byte, error) {
	d.mu.Lock()
	if len(d.files) == 0 {
		d.mu.Unlock()
		return nil, errDriverClosed
	}
	path := d.files[d.next%len(d.files)]
	d.next++
	k := gainFactor(d.settings)
	d.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	img = imaging.FitWidth(img, maxFrameWidth)
	if k != 1 {
		img = brighten(img, k)
	}
	return imaging.EncodeJPEG(img, d.quality)
}

func (d *DirectoryDriver) Apply(settings models.CameraSettings) error {
	d.mu.Lock()
	d.settings = settings
	d.mu.Unlock()
	return nil
}

func (d *DirectoryDriver) Close() error {
	d.mu.Lock()
	d.files = nil
	d.mu.Unlock()
	return nil
}

// ListImages возвращает отсортированные пути изображений каталога
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func brighten(src image.Image, k float64) image.Image {
	dst := imaging.ToRGBA(src)
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = uint8(clamp255(float64(dst.Pix[i]) * k))
		dst.Pix[i+1] = uint8(clamp255(float64(dst.Pix[i+1]) * k))
		dst.Pix[i+2] = uint8(clamp255(float64(dst.Pix[i+2]) * k))
	}
	return dst
}
