package plc_service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

func newTestLink(t *testing.T, opts Options) (*Link, *Simulator) {
	t.Helper()
	sim := NewSimulator(8)
	opts.Dialer = sim
	link := NewLink(opts)
	t.Cleanup(func() { _ = link.Close() })
	return link, sim
}

func connect(t *testing.T, link *Link) {
	t.Helper()
	status, err := link.Connect(context.Background(), "169.254.180.21", 5000, 5000)
	require.NoError(t, err)
	require.True(t, status.Connected)
}

func coil(name string) models.DeviceAddress {
	return models.DeviceAddress{Kind: models.DeviceCoil, Name: name}
}

func register(name string) models.DeviceAddress {
	return models.DeviceAddress{Kind: models.DeviceRegister, Name: name}
}

func TestConnectReportsEndpoint(t *testing.T) {
	link, _ := newTestLink(t, Options{})
	connect(t, link)

	status := link.Status()
	assert.True(t, status.Connected)
	assert.Equal(t, "169.254.180.21", status.IP)
	assert.Equal(t, 5000, status.Port)
	assert.Equal(t, 5000, status.TimeoutMs)
	assert.Empty(t, status.Error)
	assert.NotNil(t, status.LastChecked)
}

func TestStatusExplainsDisconnect(t *testing.T) {
	link, sim := newTestLink(t, Options{})

	status := link.Status()
	assert.False(t, status.Connected)
	assert.Equal(t, NotConnectedMessage, status.Error)

	sim.SetLatency(100 * time.Millisecond)
	go func() { _, _ = link.Connect(context.Background(), "169.254.180.21", 5000, 5000) }()
	require.Eventually(t, func() bool { return link.Status().IP == "169.254.180.21" }, time.Second, 5*time.Millisecond)
	if status := link.Status(); !status.Connected {
		assert.NotEmpty(t, status.Error)
	}
	require.Eventually(t, func() bool { return link.Status().Connected }, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, link.Status().Error)
}

func TestConnectSameEndpointRevalidatesWithoutRedial(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)
	connect(t, link)
	assert.Equal(t, 1, sim.Dials())

	_, err := link.Connect(context.Background(), "169.254.180.22", 5000, 5000)
	require.NoError(t, err)
	assert.Equal(t, 2, sim.Dials())
	assert.Equal(t, "169.254.180.22", link.Status().IP)
}

func TestConnectValidation(t *testing.T) {
	link, sim := newTestLink(t, Options{})

	for _, tc := range []struct {
		host    string
		port    int
		timeout int
	}{
		{"", 5000, 1000},
		{"169.254.180.21", 0, 1000},
		{"169.254.180.21", 70000, 1000},
		{"bad host!", 5000, 1000},
		{"169.254.180.21", 5000, -1},
	} {
		_, err := link.Connect(context.Background(), tc.host, tc.port, tc.timeout)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "%+v", tc)
	}
	assert.Zero(t, sim.Dials())
}

func TestConnectRefused(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	sim.Refuse(true)

	status, err := link.Connect(context.Background(), "169.254.180.21", 5000, 100)
	require.Error(t, err)

	var linkErr *apperrors.LinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, "refused", linkErr.Reason)
	assert.False(t, status.Connected)
	assert.NotEmpty(t, status.Error)
	assert.Equal(t, connectAttempts, sim.Dials())
}

func TestConcurrentWritesNeverOverlap(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)
	sim.SetLatency(2 * time.Millisecond)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, link.WriteBit(context.Background(), coil(fmt.Sprintf("M%d", 10+i)), i%2 == 0))
		}(i)
	}
	wg.Wait()

	assert.Zero(t, sim.Overlaps())
	writes := sim.Writes()
	require.Len(t, writes, n)

	seen := make(map[string]bool)
	for _, w := range writes {
		assert.False(t, seen[w.Device], "device %s written twice", w.Device)
		seen[w.Device] = true
	}
}

func TestThreeFailuresDisconnect(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)

	sim.FailNext(3)
	for i := 0; i < 3; i++ {
		err := link.WriteBit(context.Background(), coil("Y1"), true)
		require.Error(t, err)
		assert.True(t, apperrors.IsLinkError(err))
	}
	assert.False(t, link.Status().Connected)
	assert.NotEmpty(t, link.Status().Error)

	// без явного Connect операции отклоняются, не доходя до ПЛК
	err := link.WriteBit(context.Background(), coil("Y1"), true)
	var linkErr *apperrors.LinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Contains(t, linkErr.Reason, "not connected")
	assert.Empty(t, sim.Writes())

	connect(t, link)
	require.NoError(t, link.WriteBit(context.Background(), coil("Y1"), true))
	assert.True(t, sim.Bit("Y1"))
}

func TestSingleFailureRedialsOnce(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)

	sim.FailNext(1)
	require.Error(t, link.WriteBit(context.Background(), coil("M5"), true))
	assert.True(t, link.Status().Connected)

	require.NoError(t, link.WriteBit(context.Background(), coil("M5"), true))
	assert.Equal(t, 2, sim.Dials())
	assert.True(t, sim.Bit("M5"))
}

func TestMalformedAddressNeverReachesDevice(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)

	_, err := link.ParseAddress("Q99")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = link.ParseAddress("X8")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "X is octal on FX5U")

	err = link.WriteBit(context.Background(), coil("M5x"), true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, apperrors.IsLinkError(err))

	err = link.WriteBit(context.Background(), coil("D0"), true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Empty(t, sim.Writes())
}

func TestParseAddressKinds(t *testing.T) {
	link, _ := newTestLink(t, Options{})

	addr, err := link.ParseAddress("m5")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceCoil, addr.Kind)

	addr, err = link.ParseAddress("D2")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceRegister, addr.Kind)
}

func TestTriggerIsMomentaryAndNotCleared(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)

	require.NoError(t, link.Trigger(context.Background(), coil("M120")))
	assert.True(t, sim.Bit("M120"))
	assert.Equal(t, []WriteRecord{{Device: "M120", Values: []int{1}}}, sim.Writes())
}

func TestWordsAndDwords(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)
	ctx := context.Background()

	require.NoError(t, link.WriteWord(ctx, register("D10"), -5))
	v, err := link.ReadWord(ctx, register("D10"))
	require.NoError(t, err)
	assert.Equal(t, -5, v)

	require.NoError(t, link.WriteDword(ctx, register("D2"), 45000))
	v, err = link.ReadDword(ctx, register("D2"))
	require.NoError(t, err)
	assert.Equal(t, 45000, v)
	assert.Equal(t, uint16(45000&0xFFFF), sim.Word("D2"))

	assert.ErrorIs(t, link.WriteWord(ctx, register("D10"), 70000), apperrors.ErrValidation)

	sim.SetBit("X6", true)
	bit, err := link.ReadBit(ctx, coil("X6"))
	require.NoError(t, err)
	assert.True(t, bit)
}

func TestQueuedCallerCanGiveUpBeforeIssue(t *testing.T) {
	link, sim := newTestLink(t, Options{})
	connect(t, link)
	sim.SetLatency(200 * time.Millisecond)

	started := make(chan struct{})
	go func() {
		close(started)
		_ = link.WriteBit(context.Background(), coil("M1"), true)
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := link.WriteBit(ctx, coil("M2"), true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.Eventually(t, func() bool { return sim.Bit("M1") }, time.Second, 10*time.Millisecond)
	assert.False(t, sim.Bit("M2"))
}

func TestClosedLinkRejectsOperations(t *testing.T) {
	link, _ := newTestLink(t, Options{})
	connect(t, link)
	require.NoError(t, link.Close())

	err := link.WriteBit(context.Background(), coil("M5"), true)
	assert.ErrorIs(t, err, apperrors.ErrLinkClosed)
}

func TestProbeLoopAutoReconnect(t *testing.T) {
	link, sim := newTestLink(t, Options{ProbeInterval: 20 * time.Millisecond, AutoReconnect: true})
	connect(t, link)
	link.Start()

	sim.FailNext(3)
	require.Eventually(t, func() bool { return !link.Status().Connected }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return link.Status().Connected }, 3*time.Second, 20*time.Millisecond)
}

func TestBackoffIsBounded(t *testing.T) {
	b := newBackoff(250*time.Millisecond, 2*time.Second)
	var delays []time.Duration
	for i := 0; i < 6; i++ {
		delays = append(delays, b.NextBackOff())
	}
	assert.Equal(t, []time.Duration{
		250 * time.Millisecond, 500 * time.Millisecond, time.Second,
		2 * time.Second, 2 * time.Second, 2 * time.Second,
	}, delays)

	b.Reset()
	assert.Equal(t, 250*time.Millisecond, b.NextBackOff())

	long := newBackoff(time.Second, 30*time.Second)
	var last time.Duration
	for i := 0; i < 40; i++ {
		last = long.NextBackOff()
		require.NotEqual(t, backoff.Stop, last)
	}
	assert.Equal(t, 30*time.Second, last)
}
