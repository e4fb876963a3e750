package mcprotocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDevice возвращается для имен устройств, которые нельзя адресовать
var ErrInvalidDevice = errors.New("invalid device")

const maxDeviceNumber = 0xFFFFFF

// Device - устройство ПЛК в терминах 3E кадра
type Device struct {
	Name   string
	Code   byte
	Number uint32
	Bit    bool
}

type deviceSpec struct {
	code  byte
	bit   bool
	radix int // 0: основание X/Y из профиля
}

var deviceSpecs = map[string]deviceSpec{
	"X":  {code: 0x9C, bit: true},
	"Y":  {code: 0x9D, bit: true},
	"M":  {code: 0x90, bit: true, radix: 10},
	"L":  {code: 0x92, bit: true, radix: 10},
	"F":  {code: 0x93, bit: true, radix: 10},
	"B":  {code: 0xA0, bit: true, radix: 16},
	"SM": {code: 0x91, bit: true, radix: 10},
	"D":  {code: 0xA8, radix: 10},
	"W":  {code: 0xB4, radix: 16},
	"R":  {code: 0xAF, radix: 10},
	"SD": {code: 0xA9, radix: 10},
}

// ParseDevice разбирает имя вида "M5", "X6", "D100", "B1F".
// xyRadix задает систему счисления X/Y (8 для FX5U, 16 для Q/iQ-R).
func ParseDevice(name string, xyRadix int) (Device, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return Device{}, fmt.Errorf("%w: empty name", ErrInvalidDevice)
	}

	prefix := n[:1]
	if len(n) > 2 {
		if _, ok := deviceSpecs[n[:2]]; ok {
			prefix = n[:2]
		}
	}
	spec, ok := deviceSpecs[prefix]
	if !ok {
		return Device{}, fmt.Errorf("%w: unknown device type in %q", ErrInvalidDevice, name)
	}

	digits := n[len(prefix):]
	if digits == "" {
		return Device{}, fmt.Errorf("%w: %q has no device number", ErrInvalidDevice, name)
	}

	radix := spec.radix
	if radix == 0 {
		radix = xyRadix
	}
	number, err := strconv.ParseUint(digits, radix, 32)
	if err != nil {
		return Device{}, fmt.Errorf("%w: %q is not a base-%d number", ErrInvalidDevice, digits, radix)
	}
	if number > maxDeviceNumber {
		return Device{}, fmt.Errorf("%w: %q is out of range", ErrInvalidDevice, name)
	}

	return Device{Name: n, Code: spec.code, Number: uint32(number), Bit: spec.bit}, nil
}

// Offset возвращает устройство того же типа, сдвинутое на n точек
func (d Device) Offset(n uint32) Device {
	d.Number += n
	d.Name = ""
	return d
}

func (d Device) String() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("0x%02X:%d", d.Code, d.Number)
}
