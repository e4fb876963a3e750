package camera_service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/services/imaging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

type memSettings struct {
	mu     sync.Mutex
	camera *entities.CameraSettings
}

func (m *memSettings) GetPlcEndpoint() (*entities.PlcEndpoint, error) {
	return nil, apperrors.ErrDataNotFound
}

func (m *memSettings) SavePlcEndpoint(*entities.PlcEndpoint) error { return nil }

func (m *memSettings) GetCameraSettings() (*entities.CameraSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.camera == nil {
		return nil, apperrors.ErrDataNotFound
	}
	c := *m.camera
	return &c, nil
}

func (m *memSettings) SaveCameraSettings(s *entities.CameraSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	m.camera = &c
	return nil
}

// flakyDriver отдает кадры, пока не включен режим отказа
type flakyDriver struct {
	mu      sync.Mutex
	failing bool
	openErr error
}

func (d *flakyDriver) Name() string                      { return "flaky" }
func (d *flakyDriver) Open(context.Context) error        { return d.openErr }
func (d *flakyDriver) Apply(models.CameraSettings) error { return nil }
func (d *flakyDriver) Close() error                      { return nil }

func (d *flakyDriver) setFailing(v bool) {
	d.mu.Lock()
	d.failing = v
	d.mu.Unlock()
}

func (d *flakyDriver) Grab(context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failing {
		return nil, errors.New("usb transfer error")
	}
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

func TestSyntheticCameraLifecycle(t *testing.T) {
	link := NewLink(Options{Driver: NewSyntheticDriver(160, 120, 80), MaxFPS: 50})
	defer link.Disconnect()

	_, _, err := link.CurrentFrame()
	assert.ErrorIs(t, err, apperrors.ErrNoFrame)
	assert.Equal(t, models.CameraFPS{}, link.FPS())

	require.NoError(t, link.Connect(context.Background()))
	require.NoError(t, link.Connect(context.Background()), "connect is idempotent")

	require.Eventually(t, func() bool { return link.FPS().FPS > 0 }, 2*time.Second, 20*time.Millisecond)

	frame, seq, err := link.CurrentFrame()
	require.NoError(t, err)
	assert.NotZero(t, seq)
	img, err := imaging.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())

	status := link.Status()
	assert.True(t, status.IsOpen)
	assert.True(t, status.IsGrabbing)
	assert.Equal(t, "synthetic", status.Driver)

	require.NoError(t, link.Disconnect())
	assert.Equal(t, models.CameraFPS{IsOpen: false, FPS: 0}, link.FPS())
	_, _, err = link.CurrentFrame()
	assert.ErrorIs(t, err, apperrors.ErrNoFrame)
}

func TestCameraLostAfterConsecutiveFailures(t *testing.T) {
	driver := &flakyDriver{}
	link := NewLink(Options{Driver: driver, MaxFPS: 100})
	defer link.Disconnect()

	require.NoError(t, link.Connect(context.Background()))
	require.Eventually(t, func() bool { _, _, err := link.CurrentFrame(); return err == nil }, time.Second, 10*time.Millisecond)

	driver.setFailing(true)
	require.Eventually(t, func() bool { return !link.Status().IsOpen }, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, link.Status().Error, "disconnected mid-stream")
	assert.False(t, link.FPS().IsOpen)

	driver.setFailing(false)
	require.NoError(t, link.Connect(context.Background()))
	assert.True(t, link.Status().IsOpen)
}

func TestCameraOpenFailureIsCameraError(t *testing.T) {
	link := NewLink(Options{Driver: &flakyDriver{openErr: errors.New("no such device")}})

	err := link.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCameraError(err))
	assert.False(t, link.Status().IsOpen)
}

func TestSettingsSavedWhileOffline(t *testing.T) {
	repo := &memSettings{}
	link := NewLink(Options{Driver: NewSyntheticDriver(32, 32, 80), Settings: repo})

	assert.Equal(t, models.CameraSettings{Exposure: 5000}, link.Settings())

	applied, err := link.ApplySettings(models.CameraSettings{Exposure: 8000, Gain: 6})
	require.NoError(t, err)
	assert.False(t, applied)

	saved, err := repo.GetCameraSettings()
	require.NoError(t, err)
	assert.Equal(t, 8000.0, saved.Exposure)

	restarted := NewLink(Options{Driver: NewSyntheticDriver(32, 32, 80), Settings: repo})
	assert.Equal(t, models.CameraSettings{Exposure: 8000, Gain: 6}, restarted.Settings())

	require.NoError(t, restarted.Connect(context.Background()))
	defer restarted.Disconnect()
	applied, err = restarted.ApplySettings(models.CameraSettings{Exposure: 3000})
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestSettingsValidation(t *testing.T) {
	link := NewLink(Options{Driver: NewSyntheticDriver(32, 32, 80)})

	_, err := link.ApplySettings(models.CameraSettings{Exposure: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = link.ApplySettings(models.CameraSettings{Exposure: 100, Gain: 60})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = link.ApplySettings(models.CameraSettings{AutoExposure: true, Gain: 10})
	assert.NoError(t, err)
}

func TestDirectoryDriverCyclesImages(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 2000+i, 100))
		img.Set(0, 0, color.White)
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("img_%d.png", i)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	d := NewDirectoryDriver(dir, 80)
	require.NoError(t, d.Open(context.Background()))
	defer d.Close()

	for i := 0; i < 3; i++ {
		frame, err := d.Grab(context.Background())
		require.NoError(t, err)
		img, err := imaging.Decode(frame)
		require.NoError(t, err)
		assert.Equal(t, maxFrameWidth, img.Bounds().Dx())
	}

	assert.Error(t, NewDirectoryDriver(t.TempDir(), 80).Open(context.Background()))
}

func TestMJPEGDriverReadsParts(t *testing.T) {
	frame, err := imaging.EncodeJPEG(image.NewGray(image.Rect(0, 0, 8, 8)), 80)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		for i := 0; i < 3; i++ {
			fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame))
			w.Write(frame)
			w.Write([]byte("\r\n"))
		}
		w.Write([]byte("--frame--\r\n"))
	}))
	defer srv.Close()

	d := NewMJPEGDriver(srv.URL)
	require.NoError(t, d.Open(context.Background()))
	defer d.Close()

	for i := 0; i < 3; i++ {
		got, err := d.Grab(context.Background())
		require.NoError(t, err)
		assert.Equal(t, frame, got)
	}
	_, err = d.Grab(context.Background())
	assert.Error(t, err)
}

func TestFPSMeter(t *testing.T) {
	m := newFPSMeter(30)
	start := time.Now()
	for i := 0; i < 40; i++ {
		m.mark(start.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	last := start.Add(39 * 100 * time.Millisecond)
	assert.InDelta(t, 10.0, m.rate(last, 2*time.Second), 0.01)
	assert.Zero(t, m.rate(last.Add(3*time.Second), 2*time.Second))
}

// silentSource принимает TCP-соединения и ничего не отвечает
func silentSource(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		for _, c := range conns {
			c.Close()
		}
		mu.Unlock()
	})
	return "http://" + ln.Addr().String() + "/stream"
}

func TestReadersNeverWaitForPendingOpen(t *testing.T) {
	link := NewLink(Options{Driver: NewMJPEGDriver(silentSource(t))})
	defer link.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	connectErr := make(chan error, 1)
	go func() { connectErr <- link.Connect(ctx) }()
	time.Sleep(50 * time.Millisecond)

	readersDone := make(chan struct{})
	go func() {
		defer close(readersDone)
		_, _, err := link.CurrentFrame()
		assert.ErrorIs(t, err, apperrors.ErrNoFrame)
		assert.False(t, link.FPS().IsOpen)
		assert.False(t, link.Status().IsOpen)
	}()
	select {
	case <-readersDone:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("camera readers blocked by pending connect")
	}

	select {
	case err := <-connectErr:
		require.Error(t, err)
		assert.True(t, apperrors.IsCameraError(err))
	case <-time.After(2 * time.Second):
		t.Fatal("connect outlived its context")
	}
	assert.False(t, link.Status().IsOpen)
}

func TestSecondConnectDuringOpenIsBusy(t *testing.T) {
	link := NewLink(Options{Driver: NewMJPEGDriver(silentSource(t))})
	defer link.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	go func() { _ = link.Connect(ctx) }()
	time.Sleep(50 * time.Millisecond)

	err := link.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}
