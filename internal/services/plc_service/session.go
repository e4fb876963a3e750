package plc_service

import (
	"context"
	"time"

	"github.com/iwtcode/inspectionService/internal/services/plc_service/mcprotocol"
)

// Session - открытое соединение с ПЛК. Не потокобезопасно, им владеет только воркер Link.
type Session interface {
	ReadBits(dev mcprotocol.Device, count int) ([]bool, error)
	WriteBits(dev mcprotocol.Device, values []bool) error
	ReadWords(dev mcprotocol.Device, count int) ([]uint16, error)
	WriteWords(dev mcprotocol.Device, values []uint16) error
	Broken() bool
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, address string, timeout time.Duration) (Session, error)
}

// TCPDialer открывает сессии MC protocol 3E поверх TCP
type TCPDialer struct{}

func (TCPDialer) Dial(ctx context.Context, address string, timeout time.Duration) (Session, error) {
	client, err := mcprotocol.Dial(ctx, address, timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}
