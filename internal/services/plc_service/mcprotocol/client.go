package mcprotocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

var (
	// ErrBroken - поток рассинхронизирован после транспортной ошибки, нужен новый Dial
	ErrBroken     = errors.New("connection broken")
	ErrDeviceKind = errors.New("device kind mismatch")
	ErrPointCount = errors.New("point count out of range")
)

// Client - клиент MC protocol 3E (binary) поверх TCP
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	route   Route
	timeout time.Duration
	broken  bool
}

// Dial открывает TCP-соединение с ПЛК
func Dial(ctx context.Context, address string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, timeout), nil
}

func NewClient(conn net.Conn, timeout time.Duration) *Client {
	return &Client{conn: conn, route: DefaultRoute, timeout: timeout}
}

// Broken сообщает, что клиент больше нельзя использовать
func (c *Client) Broken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.broken
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = true
	return c.conn.Close()
}

func (c *Client) ReadBits(dev Device, count int) ([]bool, error) {
	if err := checkRequest(dev, true, count); err != nil {
		return nil, err
	}
	data, err := c.exchange(cmdBatchRead, subBit, dev, count, nil)
	if err != nil {
		return nil, err
	}
	return unpackBits(data, count)
}

func (c *Client) WriteBits(dev Device, values []bool) error {
	if err := checkRequest(dev, true, len(values)); err != nil {
		return err
	}
	_, err := c.exchange(cmdBatchWrite, subBit, dev, len(values), packBits(values))
	return err
}

func (c *Client) ReadWords(dev Device, count int) ([]uint16, error) {
	if err := checkRequest(dev, false, count); err != nil {
		return nil, err
	}
	data, err := c.exchange(cmdBatchRead, subWord, dev, count, nil)
	if err != nil {
		return nil, err
	}
	return decodeWords(data, count)
}

func (c *Client) WriteWords(dev Device, values []uint16) error {
	if err := checkRequest(dev, false, len(values)); err != nil {
		return err
	}
	_, err := c.exchange(cmdBatchWrite, subWord, dev, len(values), encodeWords(values))
	return err
}

func checkRequest(dev Device, bit bool, count int) error {
	if dev.Bit != bit {
		return fmt.Errorf("%w: %s", ErrDeviceKind, dev)
	}
	if count < 1 || count > MaxPoints {
		return fmt.Errorf("%w: %d", ErrPointCount, count)
	}
	return nil
}

func (c *Client) exchange(command, subcommand uint16, dev Device, points int, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return nil, ErrBroken
	}

	req := encodeRequest(c.route, monitoringTimer(c.timeout), command, subcommand, dev, uint16(points), payload)
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		c.broken = true
		return nil, err
	}
	if _, err := c.conn.Write(req); err != nil {
		c.broken = true
		return nil, err
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		c.broken = true
		return nil, err
	}
	n, err := parseResponseHeader(header)
	if err != nil {
		c.broken = true
		return nil, err
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		c.broken = true
		return nil, err
	}

	if end := uint16(body[0]) | uint16(body[1])<<8; end != 0 {
		return nil, &EndCodeError{Code: end}
	}
	return body[2:], nil
}
