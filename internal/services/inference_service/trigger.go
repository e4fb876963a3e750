package inference_service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

const (
	TriggerOff   = "off"
	TriggerTimer = "timer"
	TriggerPlc   = "plc"
)

type TriggerOptions struct {
	Mode         string
	Interval     time.Duration // для timer
	PollInterval time.Duration // для plc
}

// trigger запускает проходы инференса по таймеру или по переднему фронту бита ПЛК
type trigger struct {
	runner *Runner
	opts   TriggerOptions
	plc    interfaces.PlcLink
	device string
	logger *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newTrigger(runner *Runner, opts TriggerOptions, plc interfaces.PlcLink, device string, logger *logging.Logger) *trigger {
	if opts.Interval <= 0 {
		opts.Interval = 3 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 200 * time.Millisecond
	}
	if opts.Mode == "" {
		opts.Mode = TriggerOff
	}
	return &trigger{runner: runner, opts: opts, plc: plc, device: device, logger: logger}
}

func (t *trigger) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil || t.opts.Mode == TriggerOff {
		return
	}
	if t.opts.Mode == TriggerPlc && (t.plc == nil || t.device == "") {
		t.logger.Warn("PLC trigger requested without PLC link or trigger device, trigger disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})

	switch t.opts.Mode {
	case TriggerTimer:
		go t.timerLoop(ctx, t.done)
	case TriggerPlc:
		go t.plcLoop(ctx, t.done)
	}
	t.logger.Info("Inference trigger started", "mode", t.opts.Mode)
}

func (t *trigger) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.logger.Info("Inference trigger stopped")
}

func (t *trigger) timerLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire(ctx)
		}
	}
}

func (t *trigger) plcLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	addr, err := t.plc.ParseAddress(t.device)
	if err != nil {
		t.logger.Error("Invalid inference trigger device", "device", t.device, "error", err)
		return
	}

	ticker := time.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()

	prev := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !t.plc.Status().Connected {
			prev = false
			continue
		}
		level, err := t.plc.ReadBit(ctx, addr)
		if err != nil {
			t.logger.Debug("Trigger device read failed", "device", t.device, "error", err)
			prev = false
			continue
		}
		if level && !prev {
			t.fire(ctx)
		}
		prev = level
	}
}

func (t *trigger) fire(ctx context.Context) {
	if _, err := t.runner.Run(ctx); err != nil {
		if errors.Is(err, apperrors.ErrBusy) {
			t.logger.Debug("Trigger skipped, inference busy")
			return
		}
		t.logger.Warn("Triggered inference failed", "error", err)
	}
}
