package ds4

// Input report identifiers and minimum sizes. USB and Bluetooth input
// reports share the same 42-byte controller-state payload, just at
// different starting offsets within the report (see the offset constants
// below).
const (
	InputReportIDUSB       = 0x01
	InputReportIDBluetooth = 0x11

	InputReportMinSizeUSB       = 64
	InputReportMinSizeBluetooth = 78
)

// Data offsets of the shared 42-byte controller-state payload, relative to
// the transport-specific start offset `o` (1 for USB, 3 for Bluetooth).
const (
	payloadOffLeftStickX   = 0
	payloadOffLeftStickY   = 1
	payloadOffRightStickX  = 2
	payloadOffRightStickY  = 3
	payloadOffDPadButtons  = 4 // low nibble dpad, high nibble square/cross/circle/triangle
	payloadOffButtons1     = 5 // L1/R1/L2/R2/share/options/L3/R3
	payloadOffPSCounter    = 6 // bit0 ps, bit1 touchpadClick, bits2..7 frameCounter
	payloadOffL2Trigger    = 7
	payloadOffR2Trigger    = 8
	payloadOffTimestamp    = 9 // u16 LE
	payloadOffTemperature  = 11
	payloadOffGyroPitch    = 12
	payloadOffGyroYaw      = 14
	payloadOffGyroRoll     = 16
	payloadOffAccelX       = 18
	payloadOffAccelY       = 20
	payloadOffAccelZ       = 22
	payloadOffExtension    = 24
	payloadOffBattery      = 29
	payloadOffReserved     = 30
	payloadOffTouchCounter = 32
	payloadOffTouch0       = 33
	payloadOffTouch1       = 37

	payloadSize = 42
)

const (
	usbDataOffset = 1 // after 1-byte report ID
	btDataOffset  = 3 // after 1-byte report ID + 2 transport-flag bytes
)

// DecodeUSB parses a raw USB input report into an InputState. buf must be
// at least InputReportMinSizeUSB (64) bytes with buf[0] == InputReportIDUSB;
// reports longer than the minimum are accepted and only the prescribed
// bytes are read.
func DecodeUSB(buf []byte) (InputState, *ParseError) {
	if len(buf) < InputReportMinSizeUSB {
		return InputState{}, errInvalidLength(InputReportMinSizeUSB, len(buf))
	}
	if buf[0] != InputReportIDUSB {
		return InputState{}, errInvalidReportID(InputReportIDUSB, int(buf[0]))
	}
	return decodePayload(buf, usbDataOffset), nil
}

// DecodeBT parses a raw Bluetooth input report into an InputState. buf
// must be at least InputReportMinSizeBluetooth (78) bytes with
// buf[0] == InputReportIDBluetooth. If verifyCRC is true, the frame's
// trailing CRC-32 is validated first and ErrCrcMismatch is returned on
// failure; pass false to decode hand-built or fuzzed frames without a
// valid checksum.
func DecodeBT(buf []byte, verifyCRC bool) (InputState, *ParseError) {
	if len(buf) < InputReportMinSizeBluetooth {
		return InputState{}, errInvalidLength(InputReportMinSizeBluetooth, len(buf))
	}
	if buf[0] != InputReportIDBluetooth {
		return InputState{}, errInvalidReportID(InputReportIDBluetooth, int(buf[0]))
	}
	if verifyCRC && !ValidateInputCRC(buf) {
		return InputState{}, errCrcMismatch()
	}
	return decodePayload(buf, btDataOffset), nil
}

// Decode auto-selects the transport by the leading report-ID byte: a
// 0x11 report of at least 78 bytes routes to DecodeBT with CRC
// verification enabled; a 0x01 report of at least 64 bytes routes to
// DecodeUSB. Anything else -- including the 10-byte "reduced" Bluetooth
// report sent before the controller enters extended mode -- is rejected
// with InvalidLength or InvalidReportID rather than partially parsed.
func Decode(buf []byte) (InputState, *ParseError) {
	if len(buf) == 0 {
		return InputState{}, errInvalidLength(InputReportMinSizeUSB, 0)
	}
	switch {
	case buf[0] == InputReportIDBluetooth && len(buf) >= InputReportMinSizeBluetooth:
		return DecodeBT(buf, true)
	case buf[0] == InputReportIDUSB && len(buf) >= InputReportMinSizeUSB:
		return DecodeUSB(buf)
	case buf[0] == InputReportIDBluetooth:
		return InputState{}, errInvalidLength(InputReportMinSizeBluetooth, len(buf))
	case buf[0] == InputReportIDUSB:
		return InputState{}, errInvalidLength(InputReportMinSizeUSB, len(buf))
	default:
		return InputState{}, errInvalidReportID(InputReportIDUSB, int(buf[0]))
	}
}

// decodePayload parses the 42-byte controller-state payload starting at
// o within buf. Both DecodeUSB and DecodeBT route here after validating
// their transport-specific header.
func decodePayload(buf []byte, o int) InputState {
	var s InputState

	s.LeftStick = StickState{X: buf[o+payloadOffLeftStickX], Y: buf[o+payloadOffLeftStickY]}
	s.RightStick = StickState{X: buf[o+payloadOffRightStickX], Y: buf[o+payloadOffRightStickY]}

	dpadByte := buf[o+payloadOffDPadButtons]
	s.DPad = dpadFromRaw(dpadByte & 0x0F)
	s.Buttons.Square = dpadByte&0x10 != 0
	s.Buttons.Cross = dpadByte&0x20 != 0
	s.Buttons.Circle = dpadByte&0x40 != 0
	s.Buttons.Triangle = dpadByte&0x80 != 0

	b5 := buf[o+payloadOffButtons1]
	s.Buttons.L1 = b5&0x01 != 0
	s.Buttons.R1 = b5&0x02 != 0
	s.Buttons.L2 = b5&0x04 != 0
	s.Buttons.R2 = b5&0x08 != 0
	s.Buttons.Share = b5&0x10 != 0
	s.Buttons.Options = b5&0x20 != 0
	s.Buttons.L3 = b5&0x40 != 0
	s.Buttons.R3 = b5&0x80 != 0

	b6 := buf[o+payloadOffPSCounter]
	s.Buttons.PS = b6&0x01 != 0
	s.Buttons.TouchpadClick = b6&0x02 != 0
	s.FrameCounter = (b6 >> 2) & 0x3F

	s.L2Trigger = buf[o+payloadOffL2Trigger]
	s.R2Trigger = buf[o+payloadOffR2Trigger]

	s.Timestamp = readU16LE(buf, o+payloadOffTimestamp)
	// payloadOffTemperature is read by no consumer: uncalibrated and
	// undocumented scale, left unexposed rather than synthesised.

	s.IMU.GyroPitch = readI16LE(buf, o+payloadOffGyroPitch)
	s.IMU.GyroYaw = readI16LE(buf, o+payloadOffGyroYaw)
	s.IMU.GyroRoll = readI16LE(buf, o+payloadOffGyroRoll)
	s.IMU.AccelX = readI16LE(buf, o+payloadOffAccelX)
	s.IMU.AccelY = readI16LE(buf, o+payloadOffAccelY)
	s.IMU.AccelZ = readI16LE(buf, o+payloadOffAccelZ)

	batteryByte := buf[o+payloadOffBattery]
	s.Battery.Level = batteryByte & 0x0F
	s.Battery.CableConnected = batteryByte&0x10 != 0
	s.Battery.Headphones = batteryByte&0x20 != 0
	s.Battery.Microphone = batteryByte&0x40 != 0

	s.Touchpad.PacketCounter = buf[o+payloadOffTouchCounter]
	s.Touchpad.Touch0 = decodeTouchFinger(buf, o+payloadOffTouch0)
	s.Touchpad.Touch1 = decodeTouchFinger(buf, o+payloadOffTouch1)

	return s
}

// decodeTouchFinger decodes one 4-byte touch-finger group starting at off.
func decodeTouchFinger(buf []byte, off int) TouchFinger {
	b0 := buf[off]
	// The wire bit is inverted: 0 means a finger IS touching.
	active := b0&0x80 == 0
	trackingID := b0 & 0x7F
	x, y := splitTouchCoords(buf[off+1], buf[off+2], buf[off+3])
	return TouchFinger{Active: active, TrackingID: trackingID, X: x, Y: y}
}
