package plc_service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/iwtcode/inspectionService/internal/services/plc_service/mcprotocol"
)

var errSimulatedFault = errors.New("simulated i/o timeout")

type simKey struct {
	code   byte
	number uint32
}

// WriteRecord - одна запись, дошедшая до памяти симулятора
type WriteRecord struct {
	Device string
	Values []int
}

// Simulator - ПЛК в памяти для режима без оборудования и для тестов.
// Считает пересечения операций во времени: при корректной сериализации их ноль.
type Simulator struct {
	xyRadix int

	mu       sync.Mutex
	bits     map[simKey]bool
	words    map[simKey]uint16
	writes   []WriteRecord
	failNext int
	refuse   bool
	latency  time.Duration
	dials    int

	inFlight int32
	overlaps int32
}

func NewSimulator(xyRadix int) *Simulator {
	return &Simulator{
		xyRadix: xyRadix,
		bits:    make(map[simKey]bool),
		words:   make(map[simKey]uint16),
	}
}

func (s *Simulator) Dial(_ context.Context, address string, _ time.Duration) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dials++
	if s.refuse {
		return nil, fmt.Errorf("dial tcp %s: %w", address, syscall.ECONNREFUSED)
	}
	return &simSession{sim: s}, nil
}

// SetLatency задает искусственную задержку каждой операции
func (s *Simulator) SetLatency(d time.Duration) {
	s.mu.Lock()
	s.latency = d
	s.mu.Unlock()
}

// FailNext заставляет следующие n операций завершиться транспортной ошибкой
func (s *Simulator) FailNext(n int) {
	s.mu.Lock()
	s.failNext = n
	s.mu.Unlock()
}

// Refuse включает отказ в подключении
func (s *Simulator) Refuse(refuse bool) {
	s.mu.Lock()
	s.refuse = refuse
	s.mu.Unlock()
}

func (s *Simulator) Dials() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dials
}

// SetBit меняет бит в обход очереди, как это делает станок или другой пульт
func (s *Simulator) SetBit(name string, value bool) {
	dev := s.mustParse(name)
	s.mu.Lock()
	s.bits[simKey{dev.Code, dev.Number}] = value
	s.mu.Unlock()
}

func (s *Simulator) Bit(name string) bool {
	dev := s.mustParse(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bits[simKey{dev.Code, dev.Number}]
}

func (s *Simulator) SetWord(name string, value uint16) {
	dev := s.mustParse(name)
	s.mu.Lock()
	s.words[simKey{dev.Code, dev.Number}] = value
	s.mu.Unlock()
}

func (s *Simulator) Word(name string) uint16 {
	dev := s.mustParse(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.words[simKey{dev.Code, dev.Number}]
}

// Writes возвращает журнал записей в порядке исполнения
func (s *Simulator) Writes() []WriteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WriteRecord, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *Simulator) Overlaps() int {
	return int(atomic.LoadInt32(&s.overlaps))
}

func (s *Simulator) mustParse(name string) mcprotocol.Device {
	dev, err := mcprotocol.ParseDevice(name, s.xyRadix)
	if err != nil {
		panic(err)
	}
	return dev
}

// enter отмечает начало операции и выдерживает задержку вне мьютекса,
// чтобы параллельные вызовы действительно пересекались во времени
func (s *Simulator) enter() (func(), error) {
	if atomic.AddInt32(&s.inFlight, 1) > 1 {
		atomic.AddInt32(&s.overlaps, 1)
	}
	leave := func() { atomic.AddInt32(&s.inFlight, -1) }

	s.mu.Lock()
	latency := s.latency
	fail := s.failNext > 0
	if fail {
		s.failNext--
	}
	s.mu.Unlock()

	if latency > 0 {
		time.Sleep(latency)
	}
	if fail {
		leave()
		return nil, errSimulatedFault
	}
	return leave, nil
}

type simSession struct {
	sim    *Simulator
	closed atomic.Bool
	broken atomic.Bool
}

func (ss *simSession) begin() (func(), error) {
	if ss.closed.Load() || ss.broken.Load() {
		return nil, mcprotocol.ErrBroken
	}
	leave, err := ss.sim.enter()
	if err != nil {
		ss.broken.Store(true)
		return nil, err
	}
	return leave, nil
}

func (ss *simSession) ReadBits(dev mcprotocol.Device, count int) ([]bool, error) {
	leave, err := ss.begin()
	if err != nil {
		return nil, err
	}
	defer leave()

	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	out := make([]bool, count)
	for i := range out {
		out[i] = ss.sim.bits[simKey{dev.Code, dev.Number + uint32(i)}]
	}
	return out, nil
}

func (ss *simSession) WriteBits(dev mcprotocol.Device, values []bool) error {
	leave, err := ss.begin()
	if err != nil {
		return err
	}
	defer leave()

	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	record := WriteRecord{Device: dev.String(), Values: make([]int, len(values))}
	for i, v := range values {
		ss.sim.bits[simKey{dev.Code, dev.Number + uint32(i)}] = v
		if v {
			record.Values[i] = 1
		}
	}
	ss.sim.writes = append(ss.sim.writes, record)
	return nil
}

func (ss *simSession) ReadWords(dev mcprotocol.Device, count int) ([]uint16, error) {
	leave, err := ss.begin()
	if err != nil {
		return nil, err
	}
	defer leave()

	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	out := make([]uint16, count)
	for i := range out {
		out[i] = ss.sim.words[simKey{dev.Code, dev.Number + uint32(i)}]
	}
	return out, nil
}

func (ss *simSession) WriteWords(dev mcprotocol.Device, values []uint16) error {
	leave, err := ss.begin()
	if err != nil {
		return err
	}
	defer leave()

	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	record := WriteRecord{Device: dev.String(), Values: make([]int, len(values))}
	for i, v := range values {
		ss.sim.words[simKey{dev.Code, dev.Number + uint32(i)}] = v
		record.Values[i] = int(v)
	}
	ss.sim.writes = append(ss.sim.writes, record)
	return nil
}

func (ss *simSession) Broken() bool {
	return ss.closed.Load() || ss.broken.Load()
}

func (ss *simSession) Close() error {
	ss.closed.Store(true)
	return nil
}
