package camera_service

import (
	"sync"
	"time"
)

// frameSlot хранит только последний кадр, новый вытесняет предыдущий
type frameSlot struct {
	mu   sync.RWMutex
	data []byte
	seq  uint64
	at   time.Time
}

func (s *frameSlot) store(data []byte, at time.Time) {
	s.mu.Lock()
	s.data = data
	s.seq++
	s.at = at
	s.mu.Unlock()
}

func (s *frameSlot) load() ([]byte, uint64, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.seq, s.at
}

func (s *frameSlot) reset() {
	s.mu.Lock()
	s.data = nil
	s.at = time.Time{}
	s.mu.Unlock()
}

// fpsMeter считает частоту по кольцу времен последних кадров
type fpsMeter struct {
	mu    sync.Mutex
	times []time.Time
	next  int
	count int
}

func newFPSMeter(size int) *fpsMeter {
	return &fpsMeter{times: make([]time.Time, size)}
}

func (m *fpsMeter) mark(t time.Time) {
	m.mu.Lock()
	m.times[m.next] = t
	m.next = (m.next + 1) % len(m.times)
	if m.count < len(m.times) {
		m.count++
	}
	m.mu.Unlock()
}

// rate возвращает 0, если кадров меньше двух или последний старше stale
func (m *fpsMeter) rate(now time.Time, stale time.Duration) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count < 2 {
		return 0
	}
	newest := m.times[(m.next-1+len(m.times))%len(m.times)]
	oldest := m.times[(m.next-m.count+len(m.times))%len(m.times)]
	if now.Sub(newest) > stale {
		return 0
	}
	span := newest.Sub(oldest).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(m.count-1) / span
}

func (m *fpsMeter) reset() {
	m.mu.Lock()
	m.next, m.count = 0, 0
	m.mu.Unlock()
}
