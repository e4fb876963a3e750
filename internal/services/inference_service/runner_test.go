package inference_service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/services/imaging"
	"github.com/iwtcode/inspectionService/internal/services/plc_service"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

var testClasses = []config.DefectClassDef{
	{ID: 1, Name: "Dust", Color: []int{255, 0, 0}},
	{ID: 2, Name: "RunDown", Color: []int{0, 255, 0}},
	{ID: 3, Name: "Scratch", Color: []int{255, 255, 0}},
}

var testThresholds = config.SeverityProfile{LowBelow: 0.01, MediumBelow: 0.05}

func testProfile() config.InferenceProfile {
	return config.InferenceProfile{
		TriggerDevice: "M4",
		OverlayAlpha:  0.5,
		Severity:      testThresholds,
		Classes:       testClasses,
	}
}

// blockingClassifier держит проход, пока тест не отпустит release
type blockingClassifier struct {
	entered chan struct{}
	release chan struct{}
}

func (c *blockingClassifier) Name() string { return "blocking" }

func (c *blockingClassifier) Classify(_ context.Context, frame image.Image) (*image.Gray, error) {
	c.entered <- struct{}{}
	<-c.release
	return image.NewGray(frame.Bounds()), nil
}

type failingSource struct{}

func (failingSource) Next(context.Context) (Frame, error) { return Frame{}, apperrors.ErrNoFrame }

func newMockRunner(t *testing.T, maxDefects int) *Runner {
	t.Helper()
	r, err := NewRunner(Options{
		Mode:       ModeMock,
		Source:     NewCapturedSource(t.TempDir(), 42),
		Classifier: NewSyntheticClassifier(42, maxDefects, []int{1, 2, 3}),
		Profile:    testProfile(),
		ResultsDir: t.TempDir(),
	})
	require.NoError(t, err)
	return r
}

func TestSeverityThresholds(t *testing.T) {
	assert.Equal(t, models.SeverityLow, Classify(0.005, testThresholds))
	assert.Equal(t, models.SeverityMedium, Classify(0.02, testThresholds))
	assert.Equal(t, models.SeverityHigh, Classify(0.10, testThresholds))
	assert.Equal(t, models.SeverityMedium, Classify(0.01, testThresholds))
	assert.Equal(t, models.SeverityHigh, Classify(0.05, testThresholds))
}

func TestExtractDefects(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := 0; i < 50; i++ {
		mask.Pix[i] = 3
	}
	for i := 100; i < 300; i++ {
		mask.Pix[i] = 1
	}
	mask.Pix[9999] = 200

	defects := ExtractDefects(mask, testClasses, testThresholds)
	require.Len(t, defects, 2)
	assert.Equal(t, models.Defect{Type: "Dust", ClassID: 1, PixelCount: 200, AreaRatio: 0.02, Severity: models.SeverityMedium}, defects[0])
	assert.Equal(t, models.Defect{Type: "Scratch", ClassID: 3, PixelCount: 50, AreaRatio: 0.005, Severity: models.SeverityLow}, defects[1])

	assert.Empty(t, ExtractDefects(image.NewGray(image.Rect(0, 0, 10, 10)), testClasses, testThresholds))
}

func TestOverlayBlendsOnlyDefectPixels(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 2, 1))
	frame.SetRGBA(0, 0, color.RGBA{100, 100, 100, 255})
	frame.SetRGBA(1, 0, color.RGBA{100, 100, 100, 255})
	mask := image.NewGray(image.Rect(0, 0, 2, 1))
	mask.Pix[1] = 1

	out := Overlay(frame, mask, testClasses, 0.5)
	assert.Equal(t, color.RGBA{100, 100, 100, 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{178, 50, 50, 255}, out.RGBAAt(1, 0))
}

func TestSyntheticClassifierIsDeterministic(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 64, 48))
	a := NewSyntheticClassifier(7, 5, []int{1, 2, 3})
	b := NewSyntheticClassifier(7, 5, []int{1, 2, 3})
	for i := 0; i < 5; i++ {
		ma, err := a.Classify(context.Background(), frame)
		require.NoError(t, err)
		mb, err := b.Classify(context.Background(), frame)
		require.NoError(t, err)
		assert.Equal(t, ma.Pix, mb.Pix)
	}
}

func TestMockRunWithZeroDefects(t *testing.T) {
	r := newMockRunner(t, 0)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Defects)
	assert.Empty(t, result.Defects)
	assert.GreaterOrEqual(t, result.InferenceTimeMs, 0.0)
	assert.Equal(t, "No defects detected", result.Message)
	assert.FileExists(t, result.OverlayPath)
	assert.FileExists(t, result.SourcePath)
	assert.Contains(t, result.OverlayURL, ResultURLPrefix)
}

func TestConcurrentRunYieldsOneResultAndOneBusy(t *testing.T) {
	classifier := &blockingClassifier{entered: make(chan struct{}, 1), release: make(chan struct{})}
	r, err := NewRunner(Options{
		Mode:       ModeMock,
		Source:     NewCapturedSource(t.TempDir(), 1),
		Classifier: classifier,
		Profile:    testProfile(),
		ResultsDir: t.TempDir(),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = r.Run(context.Background())
	}()
	<-classifier.entered

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	close(classifier.release)
	wg.Wait()
	require.NoError(t, firstErr)

	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(1), latest.Sequence)
}

func TestLatestAndListeners(t *testing.T) {
	r := newMockRunner(t, 3)

	_, ok := r.Latest()
	assert.False(t, ok)

	var got []uint64
	r.OnResult(func(res models.InferenceResult) { got = append(got, res.Sequence) })

	first, err := r.Run(context.Background())
	require.NoError(t, err)
	second, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, second.Sequence, first.Sequence)
	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, second.Sequence, latest.Sequence)
	assert.Equal(t, []uint64{1, 2}, got)
}

func TestRunWithoutFrame(t *testing.T) {
	r, err := NewRunner(Options{
		Source:     failingSource{},
		Classifier: NewSyntheticClassifier(1, 1, []int{1}),
		Profile:    testProfile(),
		ResultsDir: t.TempDir(),
	})
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoFrame)

	_, err = r.Run(context.Background())
	assert.False(t, errors.Is(err, apperrors.ErrBusy), "busy flag is released after a failed run")
}

func TestResultFiles(t *testing.T) {
	r := newMockRunner(t, 2)
	for i := 0; i < 3; i++ {
		_, err := r.Run(context.Background())
		require.NoError(t, err)
	}

	list, err := r.ListResults(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Contains(t, list[0].URL, ResultURLPrefix)

	path, err := r.ResultPath(list[0].Filename)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = r.ResultPath("../secret.png")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = r.ResultPath("missing_overlay.png")
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)

	removed, err := r.ClearResults()
	require.NoError(t, err)
	assert.Equal(t, 12, removed)
	list, err = r.ListResults(20)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, ok := r.Latest()
	assert.True(t, ok)
}

func TestCapturedSourcePicksFromDirectory(t *testing.T) {
	dir := t.TempDir()
	data, err := imaging.EncodeJPEG(image.NewGray(image.Rect(0, 0, 40, 30)), 80)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panel_01.jpg"), data, 0644))

	frame, err := NewCapturedSource(dir, 3).Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "panel_01", frame.Name)
	assert.Equal(t, 40, frame.Image.Bounds().Dx())

	frame, err = NewCapturedSource(t.TempDir(), 3).Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "synthetic", frame.Name)
}

func TestHTTPClassifierResizesMask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		input, err := imaging.Decode(body)
		if assert.NoError(t, err) {
			assert.Equal(t, 518, input.Bounds().Dx())
		}

		mask := image.NewGray(image.Rect(0, 0, 518, 518))
		for i := 0; i < len(mask.Pix)/2; i++ {
			mask.Pix[i] = 2
		}
		data, _ := imaging.EncodePNG(mask)
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, 518, 5*time.Second)
	mask, err := c.Classify(context.Background(), image.NewRGBA(image.Rect(0, 0, 100, 80)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 80), mask.Bounds())

	defects := ExtractDefects(mask, testClasses, testThresholds)
	require.Len(t, defects, 1)
	assert.Equal(t, "RunDown", defects[0].Type)
	assert.InDelta(t, 0.5, defects[0].AreaRatio, 0.02)
}

func TestHTTPClassifierModelDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, err := NewRunner(Options{
		Mode:       ModeLive,
		Source:     NewCapturedSource(t.TempDir(), 1),
		Classifier: NewHTTPClassifier(srv.URL, 64, time.Second),
		Profile:    testProfile(),
		ResultsDir: t.TempDir(),
	})
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestTimerTrigger(t *testing.T) {
	r, err := NewRunner(Options{
		Source:     NewCapturedSource(t.TempDir(), 1),
		Classifier: NewSyntheticClassifier(1, 1, []int{1}),
		Profile:    testProfile(),
		ResultsDir: t.TempDir(),
		Trigger:    TriggerOptions{Mode: TriggerTimer, Interval: 20 * time.Millisecond},
	})
	require.NoError(t, err)

	r.StartTrigger()
	require.Eventually(t, func() bool { _, ok := r.Latest(); return ok }, 2*time.Second, 10*time.Millisecond)
	r.StopTrigger()
	r.StopTrigger()
}

func TestPlcTriggerFiresOnRisingEdge(t *testing.T) {
	sim := plc_service.NewSimulator(8)
	link := plc_service.NewLink(plc_service.Options{Dialer: sim})
	defer link.Close()
	_, err := link.Connect(context.Background(), "127.0.0.1", 5000, 1000)
	require.NoError(t, err)

	r, err := NewRunner(Options{
		Source:     NewCapturedSource(t.TempDir(), 1),
		Classifier: NewSyntheticClassifier(1, 0, []int{1}),
		Profile:    testProfile(),
		ResultsDir: t.TempDir(),
		Trigger:    TriggerOptions{Mode: TriggerPlc, PollInterval: 10 * time.Millisecond},
		Plc:        link,
	})
	require.NoError(t, err)
	r.StartTrigger()
	defer r.StopTrigger()

	seq := func() uint64 { res, _ := r.Latest(); return res.Sequence }

	sim.SetBit("M4", true)
	require.Eventually(t, func() bool { return seq() == 1 }, 2*time.Second, 10*time.Millisecond)

	// уровень держится - повторного запуска нет
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, uint64(1), seq())

	sim.SetBit("M4", false)
	time.Sleep(50 * time.Millisecond)
	sim.SetBit("M4", true)
	require.Eventually(t, func() bool { return seq() == 2 }, 2*time.Second, 10*time.Millisecond)
}
