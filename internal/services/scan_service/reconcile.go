package scan_service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

// Start запускает периодическую сверку локального состояния с битами ПЛК
func (m *Machine) Start() {
	m.startOnce.Do(func() {
		m.started.Store(true)
		go m.reconcileLoop()
	})
}

// Stop останавливает сверку и прерывает ожидание импульса сервопривода
func (m *Machine) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.started.Load() {
		<-m.done
	}
}

func (m *Machine) reconcileLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.opts.ReconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if !m.opts.Plc.Status().Connected {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), m.opts.ReconcileInterval*2)
			m.ControlStatus(ctx)
			cancel()
		}
	}
}

// ControlStatus читает управляющие биты и сверяет с ними состояние автомата.
// Пока выполняется команда, возвращается последний снимок с пометкой stale.
func (m *Machine) ControlStatus(ctx context.Context) models.ControlStatus {
	if !m.cmdMu.TryLock() {
		return m.cached(true, "")
	}
	defer m.cmdMu.Unlock()

	if link := m.opts.Plc.Status(); !link.Connected {
		status := m.cached(true, link.Error)
		status.Connected = false
		if status.Error == "" {
			status.Error = "PLC not connected"
		}
		return status
	}

	scan, err := m.opts.Plc.ReadBit(ctx, m.coils.scan)
	if err != nil {
		return m.cached(true, err.Error())
	}
	grid, err := m.opts.Plc.ReadBit(ctx, m.coils.grid)
	if err != nil {
		return m.cached(true, err.Error())
	}
	reset, err := m.opts.Plc.ReadBit(ctx, m.coils.reset)
	if err != nil {
		return m.cached(true, err.Error())
	}
	homingDone := false
	if m.coils.homingDone != nil && m.State() == models.ScanHoming {
		if homingDone, err = m.opts.Plc.ReadBit(ctx, *m.coils.homingDone); err != nil {
			return m.cached(true, err.Error())
		}
	}

	m.reconcile(scan, grid, homingDone, time.Now())

	m.mu.Lock()
	m.observed = models.ControlStatus{
		Connected: true,
		Scan:      bit(scan),
		Grid:      bit(grid),
		Reset:     bit(reset),
		State:     m.state,
	}
	m.mu.Unlock()
	return m.cached(false, "")
}

// reconcile приводит локальное состояние к битам ПЛК: устройство - источник истины.
// Вызывается под cmdMu.
func (m *Machine) reconcile(scan, grid, homingDone bool, now time.Time) {
	var finished *session
	var events []string

	m.mu.Lock()
	switch m.state {
	case models.ScanScanning:
		if !scan {
			finished = m.detachSession()
			m.setState(models.ScanIdle)
			events = append(events, "External scan stop detected")
		}
	case models.ScanGridTriggered:
		switch {
		case !scan && m.prior == models.ScanScanning:
			finished = m.detachSession()
			m.setState(models.ScanIdle)
			events = append(events, "External scan stop detected")
		case !grid:
			m.setState(m.prior)
		case now.Sub(m.gridAt) >= m.opts.Profile.GridTimeout():
			m.logger.Warn("Grid bit not released in time, assuming capture finished", "timeout", m.opts.Profile.GridTimeout())
			m.setState(m.prior)
		}
	case models.ScanHoming:
		switch {
		case homingDone:
			m.setState(models.ScanIdle)
			events = append(events, "Homing completed")
		case now.Sub(m.homingAt) >= m.opts.Profile.HomingTimeout():
			m.setState(models.ScanIdle)
			events = append(events, "Homing timed out, assuming completed")
		}
	case models.ScanIdle:
		if scan {
			m.session = newSession(uuid.NewString(), now, m.opts.DataDir)
			m.setState(models.ScanScanning)
			events = append(events, "External scan start detected")
		}
	}
	m.mu.Unlock()

	for _, e := range events {
		m.logger.Info(e)
		m.record(models.EventInfo, e)
	}
	m.archive(finished)
}

func (m *Machine) cached(stale bool, errMsg string) models.ControlStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status := m.observed
	status.State = m.state
	status.Stale = stale
	status.Error = errMsg
	if m.session != nil {
		status.ScanID = m.session.id
		status.ImageCount = len(m.session.images)
	}
	return status
}

func bit(v bool) int {
	if v {
		return 1
	}
	return 0
}
