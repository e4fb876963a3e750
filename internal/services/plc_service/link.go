package plc_service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	"github.com/iwtcode/inspectionService/internal/services/plc_service/mcprotocol"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

const (
	maxConsecutiveFailures = 3

	connectAttempts    = 3
	connectBackoffBase = 250 * time.Millisecond
	connectBackoffMax  = 2 * time.Second

	reconnectBackoffBase = time.Second
	reconnectBackoffMax  = 30 * time.Second
)

type Options struct {
	Dialer         Dialer
	XYRadix        int
	ProbeRegister  string
	ProbeInterval  time.Duration
	DefaultTimeout time.Duration
	AutoReconnect  bool
	Events         interfaces.EventRecorder
	Logger         *logging.Logger
}

type command struct {
	exec func() error
	done chan error
}

type linkState struct {
	host        string
	port        int
	timeoutMs   int
	connected   bool
	lastError   string
	lastChecked time.Time
}

// Link - единственный владелец сессии с ПЛК. Все операции, включая connect
// и проверку связи, проходят через одну очередь и исполняются одним воркером.
type Link struct {
	opts   Options
	logger *logging.Logger
	probe  mcprotocol.Device

	queue     chan *command
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu    sync.RWMutex
	state linkState

	// принадлежат воркеру
	session       Session
	failures      int
	reconnect     *backoff.ExponentialBackOff
	nextReconnect time.Time
}

func NewLink(opts Options) *Link {
	if opts.XYRadix == 0 {
		opts.XYRadix = 8
	}
	if opts.ProbeRegister == "" {
		opts.ProbeRegister = "D0"
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 2 * time.Second
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 2 * time.Second
	}
	if opts.Dialer == nil {
		opts.Dialer = TCPDialer{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	probe, err := mcprotocol.ParseDevice(opts.ProbeRegister, opts.XYRadix)
	if err != nil || probe.Bit {
		probe, _ = mcprotocol.ParseDevice("D0", opts.XYRadix)
	}

	l := &Link{
		opts:   opts,
		logger: opts.Logger.WithPrefix("PLC"),
		probe:  probe,
		queue:  make(chan *command),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),

		reconnect: newBackoff(reconnectBackoffBase, reconnectBackoffMax),
	}
	go l.run()
	return l
}

// Start запускает фоновую проверку связи
func (l *Link) Start() {
	l.startOnce.Do(func() {
		l.wg.Add(1)
		go l.probeLoop()
	})
}

// Close останавливает воркер и закрывает сессию. Операции после Close получают ErrLinkClosed.
func (l *Link) Close() error {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	<-l.done
	l.wg.Wait()
	return nil
}

func (l *Link) run() {
	defer close(l.done)
	for {
		select {
		case cmd := <-l.queue:
			cmd.done <- cmd.exec()
		case <-l.stop:
			l.dropSession()
			return
		}
	}
}

// submit ставит операцию в очередь. Отменить можно только ожидание очереди:
// принятая воркером операция всегда доводится до результата.
func (l *Link) submit(ctx context.Context, exec func() error) error {
	cmd := &command{exec: exec, done: make(chan error, 1)}
	select {
	case l.queue <- cmd:
	case <-l.stop:
		return apperrors.ErrLinkClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-cmd.done
}

func (l *Link) probeLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.opts.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			if err := l.submit(context.Background(), l.probeOnce); err != nil && !errors.Is(err, apperrors.ErrLinkClosed) {
				l.logger.Debug("Health probe failed", "error", err)
			}
		}
	}
}

func (l *Link) probeOnce() error {
	st := l.snapshot()
	if st.host == "" {
		return nil
	}
	if !st.connected {
		if !l.opts.AutoReconnect || time.Now().Before(l.nextReconnect) {
			return nil
		}
		if err := l.establish(st.host, st.port, st.timeoutMs, 1); err != nil {
			delay := l.reconnect.NextBackOff()
			l.nextReconnect = time.Now().Add(delay)
			l.logger.Debug("Auto-reconnect failed", "retry_in", delay, "error", err)
			return err
		}
		l.logger.Info("PLC connection restored automatically", "host", st.host, "port", st.port)
		l.record(models.EventSuccess, fmt.Sprintf("PLC reconnected to %s:%d", st.host, st.port))
		return nil
	}
	return l.withSession("probe", l.probe.Name, func(s Session) error {
		_, err := s.ReadWords(l.probe, 1)
		return err
	})
}

// Connect (пере)подключается к ПЛК. Повторный вызов с тем же адресом при живой
// сессии только перепроверяет связь.
func (l *Link) Connect(ctx context.Context, host string, port, timeoutMs int) (models.PlcStatus, error) {
	if err := validateEndpoint(host, port, timeoutMs); err != nil {
		return l.Status(), err
	}
	if timeoutMs == 0 {
		timeoutMs = int(l.opts.DefaultTimeout / time.Millisecond)
	}

	err := l.submit(ctx, func() error {
		st := l.snapshot()
		if st.connected && l.session != nil && st.host == host && st.port == port && st.timeoutMs == timeoutMs {
			if _, err := l.session.ReadWords(l.probe, 1); err == nil {
				l.markHealthy()
				return nil
			}
		}
		return l.establish(host, port, timeoutMs, connectAttempts)
	})
	return l.Status(), err
}

// establish закрывает прежнюю сессию и дозванивается с ограниченным экспоненциальным backoff
func (l *Link) establish(host string, port, timeoutMs, attempts int) error {
	l.dropSession()

	l.mu.Lock()
	l.state.host = host
	l.state.port = port
	l.state.timeoutMs = timeoutMs
	l.state.connected = false
	l.mu.Unlock()

	address := net.JoinHostPort(host, strconv.Itoa(port))
	timeout := time.Duration(timeoutMs) * time.Millisecond

	delays := newBackoff(connectBackoffBase, connectBackoffMax)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delays.NextBackOff())
		}
		sess, err := l.opts.Dialer.Dial(context.Background(), address, timeout)
		if err == nil {
			if _, err = sess.ReadWords(l.probe, 1); err == nil {
				l.session = sess
				l.failures = 0
				l.reconnect.Reset()
				l.mu.Lock()
				l.state.connected = true
				l.state.lastError = ""
				l.state.lastChecked = time.Now()
				l.mu.Unlock()
				l.logger.Info("Connected to PLC", "address", address, "attempt", attempt+1)
				return nil
			}
			_ = sess.Close()
		}
		lastErr = err
		l.logger.Warn("PLC connect attempt failed", "address", address, "attempt", attempt+1, "error", err)
	}

	l.mu.Lock()
	l.state.lastError = lastErr.Error()
	l.state.lastChecked = time.Now()
	l.mu.Unlock()
	return &apperrors.LinkError{Op: "connect", Device: address, Reason: reason(lastErr), Err: lastErr}
}

// NotConnectedMessage - ошибка статуса, пока подключение не установлено и причина неизвестна
const NotConnectedMessage = "PLC not connected"

// Status возвращает последнее известное состояние, не обращаясь к сети.
// При connected=false поле error всегда заполнено.
func (l *Link) Status() models.PlcStatus {
	st := l.snapshot()
	status := models.PlcStatus{
		Connected: st.connected,
		IP:        st.host,
		Port:      st.port,
		TimeoutMs: st.timeoutMs,
		Error:     st.lastError,
	}
	if !st.connected && status.Error == "" {
		status.Error = NotConnectedMessage
	}
	if !st.lastChecked.IsZero() {
		checked := st.lastChecked
		status.LastChecked = &checked
	}
	return status
}

func (l *Link) snapshot() linkState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// ParseAddress проверяет имя устройства, не трогая очередь
func (l *Link) ParseAddress(name string) (models.DeviceAddress, error) {
	dev, err := mcprotocol.ParseDevice(name, l.opts.XYRadix)
	if err != nil {
		return models.DeviceAddress{}, apperrors.Validationf("%v", err)
	}
	kind := models.DeviceRegister
	if dev.Bit {
		kind = models.DeviceCoil
	}
	return models.DeviceAddress{Kind: kind, Name: dev.Name}, nil
}

func (l *Link) resolve(op string, addr models.DeviceAddress, wantBit bool) (mcprotocol.Device, error) {
	dev, err := mcprotocol.ParseDevice(addr.Name, l.opts.XYRadix)
	if err == nil && dev.Bit != wantBit {
		err = fmt.Errorf("%w: %s is not a %s device", mcprotocol.ErrDeviceKind, addr.Name, map[bool]string{true: "bit", false: "word"}[wantBit])
	}
	if err != nil {
		return dev, &apperrors.LinkError{Op: op, Device: addr.Name, Reason: "malformed address", Err: apperrors.Validationf("%v", err)}
	}
	return dev, nil
}

func (l *Link) ReadBit(ctx context.Context, addr models.DeviceAddress) (bool, error) {
	dev, err := l.resolve("read", addr, true)
	if err != nil {
		return false, err
	}
	var value bool
	err = l.submit(ctx, func() error {
		return l.withSession("read", dev.Name, func(s Session) error {
			values, err := s.ReadBits(dev, 1)
			if err == nil {
				value = values[0]
			}
			return err
		})
	})
	return value, err
}

func (l *Link) ReadWord(ctx context.Context, addr models.DeviceAddress) (int, error) {
	dev, err := l.resolve("read", addr, false)
	if err != nil {
		return 0, err
	}
	var value int
	err = l.submit(ctx, func() error {
		return l.withSession("read", dev.Name, func(s Session) error {
			words, err := s.ReadWords(dev, 1)
			if err == nil {
				value = int(int16(words[0]))
			}
			return err
		})
	})
	return value, err
}

func (l *Link) ReadDword(ctx context.Context, addr models.DeviceAddress) (int, error) {
	dev, err := l.resolve("read", addr, false)
	if err != nil {
		return 0, err
	}
	var value int
	err = l.submit(ctx, func() error {
		return l.withSession("read", dev.Name, func(s Session) error {
			words, err := s.ReadWords(dev, 2)
			if err == nil {
				value = int(mcprotocol.DecodeDword(words))
			}
			return err
		})
	})
	return value, err
}

// WriteBit устанавливает уровень бита
func (l *Link) WriteBit(ctx context.Context, addr models.DeviceAddress, value bool) error {
	dev, err := l.resolve("write", addr, true)
	if err != nil {
		return err
	}
	return l.submit(ctx, func() error {
		return l.withSession("write", dev.Name, func(s Session) error {
			return s.WriteBits(dev, []bool{value})
		})
	})
}

// Trigger пишет 1 в бит-импульс. Станок реагирует на передний фронт,
// обратно в 0 бит не сбрасывается.
func (l *Link) Trigger(ctx context.Context, addr models.DeviceAddress) error {
	dev, err := l.resolve("trigger", addr, true)
	if err != nil {
		return err
	}
	return l.submit(ctx, func() error {
		return l.withSession("trigger", dev.Name, func(s Session) error {
			return s.WriteBits(dev, []bool{true})
		})
	})
}

func (l *Link) WriteWord(ctx context.Context, addr models.DeviceAddress, value int) error {
	if value < -32768 || value > 65535 {
		return apperrors.Validationf("value %d does not fit a 16-bit register", value)
	}
	dev, err := l.resolve("write", addr, false)
	if err != nil {
		return err
	}
	return l.submit(ctx, func() error {
		return l.withSession("write", dev.Name, func(s Session) error {
			return s.WriteWords(dev, []uint16{uint16(value)})
		})
	})
}

func (l *Link) WriteDword(ctx context.Context, addr models.DeviceAddress, value int) error {
	if value < -2147483648 || value > 2147483647 {
		return apperrors.Validationf("value %d does not fit a 32-bit register pair", value)
	}
	dev, err := l.resolve("write", addr, false)
	if err != nil {
		return err
	}
	return l.submit(ctx, func() error {
		return l.withSession("write", dev.Name, func(s Session) error {
			return s.WriteWords(dev, mcprotocol.EncodeDword(int32(value)))
		})
	})
}

// withSession выполняется только в воркере
func (l *Link) withSession(op, device string, fn func(s Session) error) error {
	st := l.snapshot()
	if !st.connected {
		msg := "not connected"
		if st.lastError != "" {
			msg += " (" + st.lastError + ")"
		}
		return &apperrors.LinkError{Op: op, Device: device, Reason: msg}
	}

	if l.session == nil {
		address := net.JoinHostPort(st.host, strconv.Itoa(st.port))
		sess, err := l.opts.Dialer.Dial(context.Background(), address, time.Duration(st.timeoutMs)*time.Millisecond)
		if err != nil {
			return l.fail(op, device, err)
		}
		l.session = sess
	}

	if err := fn(l.session); err != nil {
		return l.fail(op, device, err)
	}
	l.failures = 0
	l.markHealthy()
	return nil
}

func (l *Link) markHealthy() {
	l.mu.Lock()
	l.state.lastError = ""
	l.state.lastChecked = time.Now()
	l.mu.Unlock()
}

func (l *Link) fail(op, device string, err error) error {
	l.failures++
	if l.session != nil && l.session.Broken() {
		l.dropSession()
	}

	linkErr := &apperrors.LinkError{Op: op, Device: device, Reason: reason(err), Err: err}

	l.mu.Lock()
	l.state.lastError = linkErr.Error()
	l.state.lastChecked = time.Now()
	tripped := l.failures >= maxConsecutiveFailures && l.state.connected
	if tripped {
		l.state.connected = false
	}
	l.mu.Unlock()

	if tripped {
		l.dropSession()
		l.nextReconnect = time.Now().Add(reconnectBackoffBase)
		l.reconnect.Reset()
		l.logger.Error("PLC marked disconnected after consecutive failures", "failures", l.failures, "error", err)
		l.record(models.EventError, "PLC disconnected: "+linkErr.Error())
	} else {
		l.logger.Warn("PLC operation failed", "op", op, "device", device, "failures", l.failures, "error", err)
	}
	return linkErr
}

func (l *Link) dropSession() {
	if l.session != nil {
		_ = l.session.Close()
		l.session = nil
	}
}

func (l *Link) record(kind models.EventType, msg string) {
	if l.opts.Events != nil {
		l.opts.Events.Record(kind, msg)
	}
}

func validateEndpoint(host string, port, timeoutMs int) error {
	if host == "" {
		return apperrors.Validationf("ip is required")
	}
	if net.ParseIP(host) == nil {
		for _, r := range host {
			if !(r == '-' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return apperrors.Validationf("invalid host %q", host)
			}
		}
	}
	if port < 1 || port > 65535 {
		return apperrors.Validationf("port %d out of range 1..65535", port)
	}
	if timeoutMs < 0 || timeoutMs > 60000 {
		return apperrors.Validationf("timeout %dms out of range 0..60000", timeoutMs)
	}
	return nil
}

// reason сводит ошибку к короткой причине для LinkError
func reason(err error) string {
	var endErr *mcprotocol.EndCodeError
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &endErr):
		return "rejected by plc"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "refused"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, io.EOF), errors.Is(err, mcprotocol.ErrBroken), errors.Is(err, net.ErrClosed):
		return "connection lost"
	case errors.Is(err, mcprotocol.ErrMalformedResponse):
		return "malformed response"
	default:
		return "i/o error"
	}
}
