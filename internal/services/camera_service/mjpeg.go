package camera_service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

const (
	maxPartSize = 16 << 20

	dialTimeout   = 5 * time.Second
	headerTimeout = 5 * time.Second
)

// MJPEGDriver читает multipart/x-mixed-replace поток IP-камеры или шлюза
type MJPEGDriver struct {
	url    string
	client *http.Client

	mu     sync.Mutex
	body   io.ReadCloser
	reader *multipart.Reader
	cancel context.CancelFunc
}

func NewMJPEGDriver(url string) *MJPEGDriver {
	// Client.Timeout не задается: он оборвал бы бесконечный поток
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: dialTimeout}).DialContext,
		ResponseHeaderTimeout: headerTimeout,
	}
	return &MJPEGDriver{url: url, client: &http.Client{Transport: transport}}
}

func (d *MJPEGDriver) Name() string { return "mjpeg" }

func (d *MJPEGDriver) Open(ctx context.Context) error {
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, d.url, nil)
	if err != nil {
		cancel()
		return err
	}
	// ctx ограничивает только открытие, поток живет до Close
	stop := context.AfterFunc(ctx, cancel)
	resp, err := d.client.Do(req)
	if !stop() {
		if err == nil {
			resp.Body.Close()
		}
		return fmt.Errorf("открытие потока прервано: %w", ctx.Err())
	}
	if err != nil {
		cancel()
		return err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("источник вернул статус %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("источник не является MJPEG потоком (%s)", resp.Header.Get("Content-Type"))
	}

	d.mu.Lock()
	d.body = resp.Body
	d.reader = multipart.NewReader(resp.Body, params["boundary"])
	d.cancel = cancel
	d.mu.Unlock()
	return nil
}

func (d *MJPEGDriver) Grab(context.Context) ([]byte, error) {
	d.mu.Lock()
	reader := d.reader
	d.mu.Unlock()
	if reader == nil {
		return nil, errDriverClosed
	}

	part, err := reader.NextPart()
	if err != nil {
		return nil, err
	}
	defer part.Close()
	data, err := io.ReadAll(io.LimitReader(part, maxPartSize))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("пустой кадр")
	}
	return data, nil
}

// Apply у потоковой камеры не поддерживается: параметры задаются на самом устройстве
func (d *MJPEGDriver) Apply(models.CameraSettings) error {
	return fmt.Errorf("драйвер mjpeg не управляет экспозицией")
}

func (d *MJPEGDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	var err error
	if d.body != nil {
		err = d.body.Close()
		d.body = nil
	}
	d.reader = nil
	return err
}
