package ds4_test

import (
	"testing"

	"github.com/kbhid/ds4codec/ds4"
	"github.com/stretchr/testify/assert"
)

func TestCRC32Vectors(t *testing.T) {
	assert.Equal(t, uint32(0xCBF43926), ds4.CRC32Compute([]byte("123456789")))
	assert.Equal(t, uint32(0), ds4.CRC32Compute(nil))
	assert.Equal(t, uint32(0xD202EF8D), ds4.CRC32Compute([]byte{0x00}))
}

func TestValidateOutputCRCRoundTrip(t *testing.T) {
	state := ds4.OutputState{LedRed: 255, LedGreen: 10, LedBlue: 20, RumbleHeavy: 128, RumbleLight: 64}
	frame := ds4.BuildBT(state)
	assert.True(t, ds4.ValidateOutputCRC(frame[:]))
}

func TestValidateOutputCRCTamperDetection(t *testing.T) {
	frame := ds4.BuildBT(ds4.OutputState{LedRed: 255})
	assert.True(t, ds4.ValidateOutputCRC(frame[:]))

	tampered := frame
	tampered[8] = 254 // LedRed byte on the BT layout
	assert.False(t, ds4.ValidateOutputCRC(tampered[:]))
}

func TestValidateOutputCRCBitFlipsEverywhereInPayload(t *testing.T) {
	frame := ds4.BuildBT(ds4.OutputState{LedRed: 1, LedGreen: 2, LedBlue: 3, FlashOn: 4, FlashOff: 5})
	require := assert.New(t)
	require.True(ds4.ValidateOutputCRC(frame[:]))

	for i := 0; i < 78; i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := frame
			tampered[i] ^= 1 << bit
			if ds4.ValidateOutputCRC(tampered[:]) {
				t.Fatalf("flipping bit %d of byte %d went undetected", bit, i)
			}
		}
	}
}

func TestValidateInputCRCShortFrameFails(t *testing.T) {
	assert.False(t, ds4.ValidateInputCRC(make([]byte, 10)))
	assert.False(t, ds4.ValidateInputCRC(nil))
}

func buildValidInputFrame() []byte {
	frame := make([]byte, ds4.InputReportMinSizeBluetooth)
	frame[0] = ds4.InputReportIDBluetooth
	for i := 1; i < 74; i++ {
		frame[i] = byte(i * 3)
	}
	seeded := append([]byte{0xA1}, frame[:74]...)
	sum := ds4.CRC32Compute(seeded)
	frame[74] = byte(sum)
	frame[75] = byte(sum >> 8)
	frame[76] = byte(sum >> 16)
	frame[77] = byte(sum >> 24)
	return frame
}

func TestValidateInputCRCTamperDetection(t *testing.T) {
	frame := buildValidInputFrame()
	assert.True(t, ds4.ValidateInputCRC(frame))

	for i := 0; i < 78; i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), frame...)
			tampered[i] ^= 1 << bit
			if ds4.ValidateInputCRC(tampered) {
				t.Fatalf("flipping bit %d of byte %d went undetected", bit, i)
			}
		}
	}
}
