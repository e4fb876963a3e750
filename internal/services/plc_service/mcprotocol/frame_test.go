package mcprotocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeReadRequest(t *testing.T) {
	dev, err := ParseDevice("D0", 8)
	require.NoError(t, err)

	frame := encodeRequest(DefaultRoute, monitoringTimer(2*time.Second), cmdBatchRead, subWord, dev, 1, nil)

	assert.Equal(t, []byte{
		0x50, 0x00, // subheader
		0x00, 0xFF, 0xFF, 0x03, 0x00, // route
		0x0C, 0x00, // data length
		0x08, 0x00, // monitoring timer (8 x 250ms)
		0x01, 0x04, // batch read
		0x00, 0x00, // word units
		0x00, 0x00, 0x00, 0xA8, // D0
		0x01, 0x00, // one point
	}, frame)
}

func TestEncodeBitWriteRequest(t *testing.T) {
	dev, err := ParseDevice("M120", 8)
	require.NoError(t, err)

	frame := encodeRequest(DefaultRoute, 4, cmdBatchWrite, subBit, dev, 3, packBits([]bool{true, false, true}))

	assert.Equal(t, []byte{0x0E, 0x00}, frame[7:9])
	assert.Equal(t, []byte{0x01, 0x14, 0x01, 0x00}, frame[11:15])
	assert.Equal(t, []byte{0x78, 0x00, 0x00, 0x90}, frame[15:19])
	assert.Equal(t, []byte{0x10, 0x10}, frame[21:])
}

func TestBitPacking(t *testing.T) {
	values := []bool{true, true, false, true, true}
	packed := packBits(values)
	assert.Equal(t, []byte{0x11, 0x01, 0x10}, packed)

	unpacked, err := unpackBits(packed, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, unpacked)

	_, err = unpackBits([]byte{0x10}, 3)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDword(t *testing.T) {
	for _, v := range []int32{0, 1, 50000, -1, -123456, 1 << 30} {
		assert.Equal(t, v, DecodeDword(EncodeDword(v)))
	}
	assert.Equal(t, []uint16{0xC350, 0x0000}, EncodeDword(50000))
}

func TestParseResponseHeader(t *testing.T) {
	n, err := parseResponseHeader([]byte{0xD0, 0x00, 0x00, 0xFF, 0xFF, 0x03, 0x00, 0x04, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = parseResponseHeader([]byte{0x50, 0x00, 0x00, 0xFF, 0xFF, 0x03, 0x00, 0x04, 0x00})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseResponseHeader([]byte{0xD0, 0x00, 0x00, 0xFF, 0xFF, 0x03, 0x00, 0x01, 0x00})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseDevice(t *testing.T) {
	cases := []struct {
		name   string
		radix  int
		code   byte
		number uint32
		bit    bool
	}{
		{"M5", 8, 0x90, 5, true},
		{"m120", 8, 0x90, 120, true},
		{"X6", 8, 0x9C, 6, true},
		{"X17", 8, 0x9C, 15, true},
		{"X1F", 16, 0x9C, 31, true},
		{"Y1", 8, 0x9D, 1, true},
		{"B1F", 8, 0xA0, 31, true},
		{"SM400", 8, 0x91, 400, true},
		{"D100", 8, 0xA8, 100, false},
		{"W10", 8, 0xB4, 16, false},
		{"SD210", 8, 0xA9, 210, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dev, err := ParseDevice(tc.name, tc.radix)
			require.NoError(t, err)
			assert.Equal(t, tc.code, dev.Code)
			assert.Equal(t, tc.number, dev.Number)
			assert.Equal(t, tc.bit, dev.Bit)
		})
	}

	for _, bad := range []string{"", "Q5", "M", "X8", "X9", "MABC", "D-1", "D99999999"} {
		_, err := ParseDevice(bad, 8)
		assert.ErrorIs(t, err, ErrInvalidDevice, bad)
	}
}
