package inference_service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/iwtcode/inspectionService/internal/services/imaging"
)

// Classifier сегментирует кадр: значение пикселя маски - id класса, 0 - фон.
// Маска имеет размер кадра.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, frame image.Image) (*image.Gray, error)
}

// SyntheticClassifier детерминированно рисует от 0 до maxDefects эллиптических пятен
type SyntheticClassifier struct {
	classIDs   []int
	maxDefects int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSyntheticClassifier(seed int64, maxDefects int, classIDs []int) *SyntheticClassifier {
	return &SyntheticClassifier{
		classIDs:   classIDs,
		maxDefects: maxDefects,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (c *SyntheticClassifier) Name() string { return "synthetic" }

func (c *SyntheticClassifier) Classify(_ context.Context, frame image.Image) (*image.Gray, error) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 || c.maxDefects == 0 || len(c.classIDs) == 0 {
		return mask, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	blobs := c.rng.Intn(c.maxDefects + 1)
	for i := 0; i < blobs; i++ {
		class := uint8(c.classIDs[c.rng.Intn(len(c.classIDs))])
		cx, cy := c.rng.Intn(w), c.rng.Intn(h)
		rx := 2 + c.rng.Intn(max(w/12, 1))
		ry := 2 + c.rng.Intn(max(h/12, 1))
		for y := max(cy-ry, 0); y < min(cy+ry, h); y++ {
			for x := max(cx-rx, 0); x < min(cx+rx, w); x++ {
				dx := float64(x-cx) / float64(rx)
				dy := float64(y-cy) / float64(ry)
				if dx*dx+dy*dy <= 1 {
					mask.Pix[y*mask.Stride+x] = class
				}
			}
		}
	}
	return mask, nil
}

// HTTPClassifier отправляет кадр модели как JPEG размером size x size
// и получает PNG маску классов того же размера
type HTTPClassifier struct {
	url    string
	size   int
	client *http.Client
}

func NewHTTPClassifier(url string, size int, timeout time.Duration) *HTTPClassifier {
	if size <= 0 {
		size = 518
	}
	return &HTTPClassifier{url: url, size: size, client: &http.Client{Timeout: timeout}}
}

func (c *HTTPClassifier) Name() string { return "http" }

func (c *HTTPClassifier) Classify(ctx context.Context, frame image.Image) (*image.Gray, error) {
	input := imaging.Resize(frame, c.size, c.size)
	body, err := imaging.EncodeJPEG(input, 95)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("модель недоступна: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("модель вернула статус %d: %s", resp.StatusCode, bytes.TrimSpace(data[:min(len(data), 200)]))
	}

	decoded, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	mask := toClassMask(decoded)
	return imaging.ResizeNearest(mask, frame.Bounds().Dx(), frame.Bounds().Dy()), nil
}

// toClassMask берет id класса из первого канала: для gray и paletted масок это само значение
func toClassMask(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if p, ok := img.(*image.Paletted); ok {
				out.Pix[y*out.Stride+x] = p.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
				continue
			}
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pix[y*out.Stride+x] = uint8(r >> 8)
		}
	}
	return out
}
