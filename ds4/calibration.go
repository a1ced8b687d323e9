package ds4

import "math"

// Calibration feature-report IDs and size, per transport. Both report IDs
// read back a 37-byte feature report with a shared tail layout and a
// transport-specific gyro plus/minus ordering (see ParseCalibrationUSB/BT).
const (
	FeatureReportIDUSB       = 0x02
	FeatureReportIDBluetooth = 0x05
	CalibrationReportSize    = 37
)

// Fallback sensitivities used when no calibration data is available, or
// when it parses but isValid is false (BMI055 nominal full-scale specs).
const (
	gyroFallbackScale  = 1.0 / 16.4   // deg/s per LSB, +-2000 deg/s FS
	accelFallbackScale = 1.0 / 8192.0 // g per LSB
)

// axisCalibration is the factory-reference triple for a single gyro or
// accel axis: a bias/center plus a plus/minus reference pair.
type axisCalibration struct {
	Bias  int16 `json:"bias"`
	Plus  int16 `json:"plus"`
	Minus int16 `json:"minus"`
}

// CalibrationData is the parsed 37-byte calibration feature report: three
// gyro axes with bias and plus/minus references plus a shared speed
// reference pair, and three accelerometer axes with plus/minus references
// (accel has no bias field on the wire -- CalibrateAccel derives a center
// from plus/minus itself).
type CalibrationData struct {
	GyroPitch      axisCalibration `json:"gyroPitch"`
	GyroYaw        axisCalibration `json:"gyroYaw"`
	GyroRoll       axisCalibration `json:"gyroRoll"`
	GyroSpeedPlus  int16           `json:"gyroSpeedPlus"`
	GyroSpeedMinus int16           `json:"gyroSpeedMinus"`

	AccelXPlus  int16 `json:"accelXPlus"`
	AccelXMinus int16 `json:"accelXMinus"`
	AccelYPlus  int16 `json:"accelYPlus"`
	AccelYMinus int16 `json:"accelYMinus"`
	AccelZPlus  int16 `json:"accelZPlus"`
	AccelZMinus int16 `json:"accelZMinus"`
}

// GyroAxis selects which of the three gyro axes a calibration operation
// targets.
type GyroAxis int

const (
	GyroAxisPitch GyroAxis = iota
	GyroAxisYaw
	GyroAxisRoll
)

// AccelAxis selects which of the three accelerometer axes a calibration
// operation targets.
type AccelAxis int

const (
	AccelAxisX AccelAxis = iota
	AccelAxisY
	AccelAxisZ
)

// IsValid reports whether every one of the six (gyro + accel) ranges
// (plus - minus) is nonzero, computed in 32-bit signed arithmetic to avoid
// int16 overflow on the subtraction. A false IsValid means CalibrateGyro/
// CalibrateAccel would fall back to raw passthrough for at least one axis;
// callers may prefer the fixed fallback scales entirely in that case.
func (c CalibrationData) IsValid() bool {
	axes := [][2]int16{
		{c.GyroPitch.Plus, c.GyroPitch.Minus},
		{c.GyroYaw.Plus, c.GyroYaw.Minus},
		{c.GyroRoll.Plus, c.GyroRoll.Minus},
		{c.AccelXPlus, c.AccelXMinus},
		{c.AccelYPlus, c.AccelYMinus},
		{c.AccelZPlus, c.AccelZMinus},
	}
	for _, a := range axes {
		if int32(a[0])-int32(a[1]) == 0 {
			return false
		}
	}
	return true
}

// ParseCalibrationUSB parses a 37-byte USB calibration feature report
// (report ID 0x02). Bytes 7..18 use the USB "interleaved per axis" layout:
// pitchPlus, pitchMinus, yawPlus, yawMinus, rollPlus, rollMinus.
func ParseCalibrationUSB(buf []byte) (CalibrationData, *ParseError) {
	if len(buf) < CalibrationReportSize {
		return CalibrationData{}, errInvalidLength(CalibrationReportSize, len(buf))
	}
	if buf[0] != FeatureReportIDUSB {
		return CalibrationData{}, errInvalidReportID(FeatureReportIDUSB, int(buf[0]))
	}
	return parseCalibration(buf, 7, 11, 15, 9, 13, 17), nil
}

// ParseCalibrationBT parses a 37-byte Bluetooth calibration feature report
// (report ID 0x05). Bytes 7..18 use the Bluetooth "all-plus then
// all-minus" layout: pitchPlus, yawPlus, rollPlus, pitchMinus, yawMinus,
// rollMinus.
func ParseCalibrationBT(buf []byte) (CalibrationData, *ParseError) {
	if len(buf) < CalibrationReportSize {
		return CalibrationData{}, errInvalidLength(CalibrationReportSize, len(buf))
	}
	if buf[0] != FeatureReportIDBluetooth {
		return CalibrationData{}, errInvalidReportID(FeatureReportIDBluetooth, int(buf[0]))
	}
	return parseCalibration(buf, 7, 9, 11, 13, 15, 17), nil
}

// parseCalibration shares the bytes both layouts agree on (1..6 biases,
// 19..34 speed + accel) and takes the six plus/minus byte offsets as
// parameters so the two transport-specific entry points stay a one-line
// wrapper each instead of duplicating the tail parse.
func parseCalibration(buf []byte, pitchPlusOff, yawPlusOff, rollPlusOff, pitchMinusOff, yawMinusOff, rollMinusOff int) CalibrationData {
	var c CalibrationData

	c.GyroPitch.Bias = readI16LE(buf, 1)
	c.GyroYaw.Bias = readI16LE(buf, 3)
	c.GyroRoll.Bias = readI16LE(buf, 5)

	c.GyroPitch.Plus = readI16LE(buf, pitchPlusOff)
	c.GyroYaw.Plus = readI16LE(buf, yawPlusOff)
	c.GyroRoll.Plus = readI16LE(buf, rollPlusOff)
	c.GyroPitch.Minus = readI16LE(buf, pitchMinusOff)
	c.GyroYaw.Minus = readI16LE(buf, yawMinusOff)
	c.GyroRoll.Minus = readI16LE(buf, rollMinusOff)

	c.GyroSpeedPlus = readI16LE(buf, 19)
	c.GyroSpeedMinus = readI16LE(buf, 21)

	c.AccelXPlus = readI16LE(buf, 23)
	c.AccelXMinus = readI16LE(buf, 25)
	c.AccelYPlus = readI16LE(buf, 27)
	c.AccelYMinus = readI16LE(buf, 29)
	c.AccelZPlus = readI16LE(buf, 31)
	c.AccelZMinus = readI16LE(buf, 33)

	return c
}

func (c CalibrationData) gyroAxis(axis GyroAxis) axisCalibration {
	switch axis {
	case GyroAxisYaw:
		return c.GyroYaw
	case GyroAxisRoll:
		return c.GyroRoll
	default:
		return c.GyroPitch
	}
}

func (c CalibrationData) accelPlusMinus(axis AccelAxis) (plus, minus int32) {
	switch axis {
	case AccelAxisY:
		return int32(c.AccelYPlus), int32(c.AccelYMinus)
	case AccelAxisZ:
		return int32(c.AccelZPlus), int32(c.AccelZMinus)
	default:
		return int32(c.AccelXPlus), int32(c.AccelXMinus)
	}
}

// CalibrateGyro converts a raw gyro sample into degrees/second using the
// factory references for axis:
//
//	(raw - bias) * (speedPlus + speedMinus) / abs(plus - minus)
//
// evaluated in 32-bit signed integer arithmetic before converting to
// float64. The abs() in the denominator is essential: DS4v1 controllers
// ship with the yaw axis's plus/minus references in swapped sign order
// (plus < minus); without abs, calibrated yaw would come out sign-
// inverted. If plus == minus, raw is returned unchanged as a passthrough
// rather than dividing by zero -- callers should consult IsValid first if
// they want to detect this case instead of silently getting raw back.
func CalibrateGyro(axis GyroAxis, cal CalibrationData, raw int16) float64 {
	a := cal.gyroAxis(axis)
	plus, minus := int32(a.Plus), int32(a.Minus)
	denom := plus - minus
	if denom == 0 {
		return float64(raw)
	}
	if denom < 0 {
		denom = -denom
	}
	numerator := (int32(raw) - int32(a.Bias)) * (int32(cal.GyroSpeedPlus) + int32(cal.GyroSpeedMinus))
	return float64(numerator) / float64(denom)
}

// CalibrateAccel converts a raw accelerometer sample into g-force using the
// factory plus/minus references for axis:
//
//	center    = (plus + minus) / 2        (integer division)
//	halfRange = (plus - minus) / 2         (floating point)
//	result    = (raw - center) / abs(halfRange)
//
// As with CalibrateGyro, abs() guards against inverted polarities, and a
// zero halfRange falls back to raw passthrough instead of dividing by
// zero.
func CalibrateAccel(axis AccelAxis, cal CalibrationData, raw int16) float64 {
	plus, minus := cal.accelPlusMinus(axis)
	center := (plus + minus) / 2
	halfRange := float64(plus-minus) / 2
	if halfRange == 0 {
		return float64(raw)
	}
	return (float64(raw) - float64(center)) / math.Abs(halfRange)
}

// CalibrateGyroFallback converts a raw gyro sample into degrees/second
// using the fixed BMI055 nominal sensitivity, for use when no calibration
// data is available or CalibrationData.IsValid is false.
func CalibrateGyroFallback(raw int16) float64 {
	return float64(raw) * gyroFallbackScale
}

// CalibrateAccelFallback converts a raw accelerometer sample into g-force
// using the fixed BMI055 nominal sensitivity, for use when no calibration
// data is available or CalibrationData.IsValid is false.
func CalibrateAccelFallback(raw int16) float64 {
	return float64(raw) * accelFallbackScale
}
