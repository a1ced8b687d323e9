package ds4_test

import (
	"encoding/binary"
	"testing"

	"github.com/kbhid/ds4codec/ds4"
	"github.com/stretchr/testify/assert"
)

func buildUSBCalibrationReport(pitchBias, yawBias, rollBias,
	pitchPlus, pitchMinus, yawPlus, yawMinus, rollPlus, rollMinus,
	speedPlus, speedMinus,
	axPlus, axMinus, ayPlus, ayMinus, azPlus, azMinus int16) []byte {
	b := make([]byte, ds4.CalibrationReportSize)
	b[0] = ds4.FeatureReportIDUSB
	put := func(off int, v int16) { binary.LittleEndian.PutUint16(b[off:off+2], uint16(v)) }
	put(1, pitchBias)
	put(3, yawBias)
	put(5, rollBias)
	put(7, pitchPlus)
	put(9, pitchMinus)
	put(11, yawPlus)
	put(13, yawMinus)
	put(15, rollPlus)
	put(17, rollMinus)
	put(19, speedPlus)
	put(21, speedMinus)
	put(23, axPlus)
	put(25, axMinus)
	put(27, ayPlus)
	put(29, ayMinus)
	put(31, azPlus)
	put(33, azMinus)
	return b
}

func buildBTCalibrationReport(pitchBias, yawBias, rollBias,
	pitchPlus, yawPlus, rollPlus, pitchMinus, yawMinus, rollMinus,
	speedPlus, speedMinus,
	axPlus, axMinus, ayPlus, ayMinus, azPlus, azMinus int16) []byte {
	b := make([]byte, ds4.CalibrationReportSize)
	b[0] = ds4.FeatureReportIDBluetooth
	put := func(off int, v int16) { binary.LittleEndian.PutUint16(b[off:off+2], uint16(v)) }
	put(1, pitchBias)
	put(3, yawBias)
	put(5, rollBias)
	put(7, pitchPlus)
	put(9, yawPlus)
	put(11, rollPlus)
	put(13, pitchMinus)
	put(15, yawMinus)
	put(17, rollMinus)
	put(19, speedPlus)
	put(21, speedMinus)
	put(23, axPlus)
	put(25, axMinus)
	put(27, ayPlus)
	put(29, ayMinus)
	put(31, azPlus)
	put(33, azMinus)
	return b
}

func TestParseCalibrationLayoutDivergence(t *testing.T) {
	usb := buildUSBCalibrationReport(
		1, 2, 3,
		1000, -1000, 1001, -1001, 1002, -1002,
		500, 500,
		8192, -8192, 8193, -8193, 8194, -8194,
	)
	bt := buildBTCalibrationReport(
		1, 2, 3,
		1000, 1001, 1002, -1000, -1001, -1002,
		500, 500,
		8192, -8192, 8193, -8193, 8194, -8194,
	)

	got1, err1 := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err1)
	got2, err2 := ds4.ParseCalibrationBT(bt)
	assert.Nil(t, err2)
	assert.Equal(t, got1, got2)
}

func TestParseCalibrationUSBWrongReportID(t *testing.T) {
	b := buildUSBCalibrationReport(0, 0, 0, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0)
	b[0] = 0x99
	_, err := ds4.ParseCalibrationUSB(b)
	if assert.NotNil(t, err) {
		assert.Equal(t, ds4.ErrInvalidReportID, err.Kind)
	}
}

func TestParseCalibrationTooShort(t *testing.T) {
	_, err := ds4.ParseCalibrationUSB(make([]byte, 10))
	if assert.NotNil(t, err) {
		assert.Equal(t, ds4.ErrInvalidLength, err.Kind)
	}
}

func TestCalibrateGyroIdentity(t *testing.T) {
	usb := buildUSBCalibrationReport(
		0, 0, 0,
		1000, -1000, 1000, -1000, 1000, -1000,
		1000, 1000,
		1, -1, 1, -1, 1, -1,
	)
	cal, err := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err)

	for raw := int16(-500); raw <= 500; raw += 123 {
		got := ds4.CalibrateGyro(ds4.GyroAxisPitch, cal, raw)
		assert.InDelta(t, float64(raw), got, 0.001)
	}
}

func TestCalibrateGyroAtBias(t *testing.T) {
	usb := buildUSBCalibrationReport(
		100, 200, 300,
		1000, -1000, 1000, -1000, 1000, -1000,
		500, 500,
		1, -1, 1, -1, 1, -1,
	)
	cal, err := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, ds4.CalibrateGyro(ds4.GyroAxisPitch, cal, 100), 0.0001)
	assert.InDelta(t, 0.0, ds4.CalibrateGyro(ds4.GyroAxisYaw, cal, 200), 0.0001)
	assert.InDelta(t, 0.0, ds4.CalibrateGyro(ds4.GyroAxisRoll, cal, 300), 0.0001)
}

func TestCalibrateAccelAtRest(t *testing.T) {
	usb := buildUSBCalibrationReport(
		0, 0, 0,
		1, -1, 1, -1, 1, -1,
		0, 0,
		8192, -8192, 8192, -8192, 8192, -8192,
	)
	cal, err := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, ds4.CalibrateAccel(ds4.AccelAxisX, cal, 8192), 0.0001)
	assert.InDelta(t, -1.0, ds4.CalibrateAccel(ds4.AccelAxisX, cal, -8192), 0.0001)
}

func TestCalibrateGyroInvertedPolarityTolerance(t *testing.T) {
	// DS4v1 yaw-style: plus < minus.
	usb := buildUSBCalibrationReport(
		0, 500, 0,
		1, -1, -8889, 8839, 1, -1,
		1000, 1000,
		1, -1, 1, -1, 1, -1,
	)
	cal, err := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err)

	// raw - bias > 0 must yield a positive calibrated value regardless of
	// the sign of (plus - minus).
	got := ds4.CalibrateGyro(ds4.GyroAxisYaw, cal, 600) // raw - bias = 100
	assert.Greater(t, got, 0.0)
}

func TestCalibrateZeroDenominatorFallback(t *testing.T) {
	usb := buildUSBCalibrationReport(
		0, 0, 0,
		5, 5, 1, -1, 1, -1, // pitch plus==minus==5
		1000, 1000,
		7, 7, 1, -1, 1, -1, // accelX plus==minus==7
	)
	cal, err := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err)

	assert.Equal(t, float64(42), ds4.CalibrateGyro(ds4.GyroAxisPitch, cal, 42))
	assert.Equal(t, float64(99), ds4.CalibrateAccel(ds4.AccelAxisX, cal, 99))
}

func TestCalibrationIsValid(t *testing.T) {
	valid := buildUSBCalibrationReport(
		0, 0, 0,
		1000, -1000, 1000, -1000, 1000, -1000,
		500, 500,
		8192, -8192, 8192, -8192, 8192, -8192,
	)
	cal, err := ds4.ParseCalibrationUSB(valid)
	assert.Nil(t, err)
	assert.True(t, cal.IsValid())

	invalid := buildUSBCalibrationReport(
		0, 0, 0,
		5, 5, 1000, -1000, 1000, -1000,
		500, 500,
		8192, -8192, 8192, -8192, 8192, -8192,
	)
	cal2, err := ds4.ParseCalibrationUSB(invalid)
	assert.Nil(t, err)
	assert.False(t, cal2.IsValid())
}

func TestCalibrateGyroNoInt16Overflow(t *testing.T) {
	// bias=-1000, raw=32000: true raw-bias=33000, which overflows int16
	// (max 32767) and wraps to a negative value if computed at 16 bits
	// before widening to int32. speedPlus+speedMinus=40000 similarly
	// overflows int16 on its own. Both must be computed in 32-bit
	// arithmetic throughout, not widened after wrapping.
	usb := buildUSBCalibrationReport(
		-1000, 0, 0,
		1000, -1000, 1, -1, 1, -1,
		20000, 20000,
		1, -1, 1, -1, 1, -1,
	)
	cal, err := ds4.ParseCalibrationUSB(usb)
	assert.Nil(t, err)

	got := ds4.CalibrateGyro(ds4.GyroAxisPitch, cal, 32000)
	// (32000 - (-1000)) * (20000 + 20000) / abs(1000 - (-1000)) = 660000
	assert.InDelta(t, 660000.0, got, 0.001)
}

func TestCalibrationFallbackScales(t *testing.T) {
	assert.InDelta(t, 1.0, ds4.CalibrateGyroFallback(16), 0.05)
	assert.InDelta(t, 1.0, ds4.CalibrateAccelFallback(8192), 0.0001)
}
