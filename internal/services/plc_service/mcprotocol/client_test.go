package mcprotocol

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePLC отвечает на 3E кадры из памяти; устройство с кодом rejectCode
// получает код завершения 0xC051.
type fakePLC struct {
	mu         sync.Mutex
	bits       map[uint32]bool
	words      map[uint32]uint16
	rejectCode byte
}

func newFakePLC() *fakePLC {
	return &fakePLC{bits: map[uint32]bool{}, words: map[uint32]uint16{}, rejectCode: 0xAF}
}

func key(code byte, n uint32) uint32 { return uint32(code)<<24 | n }

func (f *fakePLC) serve(conn net.Conn) {
	defer conn.Close()
	for {
		header := make([]byte, headerLen)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		body := make([]byte, binary.LittleEndian.Uint16(header[7:9]))
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}

		cmd := binary.LittleEndian.Uint16(body[2:4])
		sub := binary.LittleEndian.Uint16(body[4:6])
		num := uint32(body[6]) | uint32(body[7])<<8 | uint32(body[8])<<16
		code := body[9]
		points := int(binary.LittleEndian.Uint16(body[10:12]))
		data := body[12:]

		end := uint16(0)
		var payload []byte

		f.mu.Lock()
		switch {
		case code == f.rejectCode:
			end = 0xC051
		case cmd == cmdBatchRead && sub == subBit:
			values := make([]bool, points)
			for i := range values {
				values[i] = f.bits[key(code, num+uint32(i))]
			}
			payload = packBits(values)
		case cmd == cmdBatchRead && sub == subWord:
			values := make([]uint16, points)
			for i := range values {
				values[i] = f.words[key(code, num+uint32(i))]
			}
			payload = encodeWords(values)
		case cmd == cmdBatchWrite && sub == subBit:
			values, _ := unpackBits(data, points)
			for i, v := range values {
				f.bits[key(code, num+uint32(i))] = v
			}
		case cmd == cmdBatchWrite && sub == subWord:
			values, _ := decodeWords(data, points)
			for i, v := range values {
				f.words[key(code, num+uint32(i))] = v
			}
		}
		f.mu.Unlock()

		resp := []byte{0xD0, 0x00, 0x00, 0xFF, 0xFF, 0x03, 0x00}
		resp = binary.LittleEndian.AppendUint16(resp, uint16(2+len(payload)))
		resp = binary.LittleEndian.AppendUint16(resp, end)
		resp = append(resp, payload...)
		if _, err := conn.Write(resp); err != nil {
			return
		}
	}
}

func newPipeClient(t *testing.T) (*Client, *fakePLC, net.Conn) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	plc := newFakePLC()
	go plc.serve(serverSide)
	c := NewClient(clientSide, time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c, plc, serverSide
}

func mustDevice(t *testing.T, name string) Device {
	t.Helper()
	dev, err := ParseDevice(name, 8)
	require.NoError(t, err)
	return dev
}

func TestClientBitRoundTrip(t *testing.T) {
	c, plc, _ := newPipeClient(t)

	require.NoError(t, c.WriteBits(mustDevice(t, "M5"), []bool{true}))
	require.NoError(t, c.WriteBits(mustDevice(t, "M7"), []bool{true, false, true}))

	plc.mu.Lock()
	assert.True(t, plc.bits[key(0x90, 5)])
	assert.True(t, plc.bits[key(0x90, 9)])
	plc.mu.Unlock()

	values, err := c.ReadBits(mustDevice(t, "M4"), 6)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true, false, true}, values)
}

func TestClientWordAndDword(t *testing.T) {
	c, _, _ := newPipeClient(t)

	require.NoError(t, c.WriteWords(mustDevice(t, "D2"), EncodeDword(-20000)))
	words, err := c.ReadWords(mustDevice(t, "D2"), 2)
	require.NoError(t, err)
	assert.Equal(t, int32(-20000), DecodeDword(words))
}

func TestClientEndCodeKeepsSession(t *testing.T) {
	c, _, _ := newPipeClient(t)

	_, err := c.ReadWords(mustDevice(t, "R0"), 1)
	var endErr *EndCodeError
	require.True(t, errors.As(err, &endErr))
	assert.Equal(t, uint16(0xC051), endErr.Code)
	assert.False(t, c.Broken())

	_, err = c.ReadWords(mustDevice(t, "D0"), 1)
	assert.NoError(t, err)
}

func TestClientRejectsKindMismatch(t *testing.T) {
	c, _, _ := newPipeClient(t)

	_, err := c.ReadBits(mustDevice(t, "D0"), 1)
	assert.ErrorIs(t, err, ErrDeviceKind)
	assert.ErrorIs(t, c.WriteWords(mustDevice(t, "M0"), []uint16{1}), ErrDeviceKind)
	_, err = c.ReadWords(mustDevice(t, "D0"), 0)
	assert.ErrorIs(t, err, ErrPointCount)
}

func TestClientBreaksOnTransportError(t *testing.T) {
	c, _, server := newPipeClient(t)
	require.NoError(t, server.Close())

	_, err := c.ReadWords(mustDevice(t, "D0"), 1)
	require.Error(t, err)
	assert.True(t, c.Broken())

	_, err = c.ReadWords(mustDevice(t, "D0"), 1)
	assert.ErrorIs(t, err, ErrBroken)
}

func TestDialOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	plc := newFakePLC()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			plc.serve(conn)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c, err := Dial(ctx, ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.WriteBits(mustDevice(t, "Y1"), []bool{true}))
	values, err := c.ReadBits(mustDevice(t, "Y1"), 1)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, values)
}
