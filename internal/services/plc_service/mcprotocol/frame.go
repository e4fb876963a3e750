package mcprotocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	cmdBatchRead  uint16 = 0x0401
	cmdBatchWrite uint16 = 0x1401

	subWord uint16 = 0x0000
	subBit  uint16 = 0x0001

	// MaxPoints - предел точек в одном пакетном запросе
	MaxPoints = 960

	headerLen = 9
)

var (
	requestSubheader  = [2]byte{0x50, 0x00}
	responseSubheader = [2]byte{0xD0, 0x00}

	ErrMalformedResponse = errors.New("malformed response")
)

// Route - маршрут доступа 3E кадра
type Route struct {
	Network  byte
	PC       byte
	ModuleIO uint16
	Station  byte
}

// DefaultRoute - обращение к собственной станции через встроенный Ethernet
var DefaultRoute = Route{Network: 0x00, PC: 0xFF, ModuleIO: 0x03FF, Station: 0x00}

// EndCodeError - ПЛК принял кадр, но вернул ненулевой код завершения
type EndCodeError struct {
	Code uint16
}

func (e *EndCodeError) Error() string {
	return fmt.Sprintf("plc end code 0x%04X", e.Code)
}

// monitoringTimer переводит таймаут в единицы 250 мс
func monitoringTimer(timeout time.Duration) uint16 {
	units := timeout / (250 * time.Millisecond)
	if units < 1 {
		units = 1
	}
	if units > 0xFFFF {
		units = 0xFFFF
	}
	return uint16(units)
}

func encodeRequest(route Route, timer, command, subcommand uint16, dev Device, points uint16, data []byte) []byte {
	body := make([]byte, 0, 12+len(data))
	body = binary.LittleEndian.AppendUint16(body, timer)
	body = binary.LittleEndian.AppendUint16(body, command)
	body = binary.LittleEndian.AppendUint16(body, subcommand)
	body = append(body, byte(dev.Number), byte(dev.Number>>8), byte(dev.Number>>16), dev.Code)
	body = binary.LittleEndian.AppendUint16(body, points)
	body = append(body, data...)

	frame := make([]byte, 0, headerLen+len(body))
	frame = append(frame, requestSubheader[:]...)
	frame = append(frame, route.Network, route.PC)
	frame = binary.LittleEndian.AppendUint16(frame, route.ModuleIO)
	frame = append(frame, route.Station)
	frame = binary.LittleEndian.AppendUint16(frame, uint16(len(body)))
	return append(frame, body...)
}

// parseResponseHeader проверяет заголовок ответа и возвращает длину данных
func parseResponseHeader(header []byte) (int, error) {
	if len(header) != headerLen {
		return 0, fmt.Errorf("%w: short header", ErrMalformedResponse)
	}
	if header[0] != responseSubheader[0] || header[1] != responseSubheader[1] {
		return 0, fmt.Errorf("%w: subheader %02X %02X", ErrMalformedResponse, header[0], header[1])
	}
	n := int(binary.LittleEndian.Uint16(header[7:9]))
	if n < 2 {
		return 0, fmt.Errorf("%w: data length %d", ErrMalformedResponse, n)
	}
	return n, nil
}

// packBits упаковывает точки по две в байт: старший полубайт - первая точка
func packBits(values []bool) []byte {
	out := make([]byte, (len(values)+1)/2)
	for i, v := range values {
		if !v {
			continue
		}
		if i%2 == 0 {
			out[i/2] |= 0x10
		} else {
			out[i/2] |= 0x01
		}
	}
	return out
}

func unpackBits(data []byte, count int) ([]bool, error) {
	if len(data) < (count+1)/2 {
		return nil, fmt.Errorf("%w: %d bytes for %d bits", ErrMalformedResponse, len(data), count)
	}
	out := make([]bool, count)
	for i := range out {
		b := data[i/2]
		if i%2 == 0 {
			out[i] = b&0xF0 != 0
		} else {
			out[i] = b&0x0F != 0
		}
	}
	return out, nil
}

func encodeWords(values []uint16) []byte {
	out := make([]byte, 0, len(values)*2)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

func decodeWords(data []byte, count int) ([]uint16, error) {
	if len(data) < count*2 {
		return nil, fmt.Errorf("%w: %d bytes for %d words", ErrMalformedResponse, len(data), count)
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return out, nil
}

// EncodeDword раскладывает signed 32-bit значение на два слова (младшее первым)
func EncodeDword(v int32) []uint16 {
	u := uint32(v)
	return []uint16{uint16(u), uint16(u >> 16)}
}

// DecodeDword собирает signed 32-bit значение из двух слов
func DecodeDword(words []uint16) int32 {
	if len(words) < 2 {
		return 0
	}
	return int32(uint32(words[0]) | uint32(words[1])<<16)
}
