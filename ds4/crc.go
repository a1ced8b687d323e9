package ds4

import "github.com/pasztorpisti/go-crc"

// Seed bytes prepended to a Bluetooth frame's payload before computing its
// CRC-32. They are a protocol convention, not wire bytes themselves: the
// controller never transmits them, but both sides fold them into the
// checksum. Input (device->host) uses 0xA1; output (host->device) uses 0xA2.
const (
	seedInput  byte = 0xA1
	seedOutput byte = 0xA2
)

// btFrameSize is the fixed length of every Bluetooth input/output report,
// including its 4-byte CRC-32 tail.
const btFrameSize = 78

// btPayloadSize is the portion of a Bluetooth frame the CRC covers, not
// counting the 4-byte CRC tail itself.
const btPayloadSize = 74

// crc32Compute is the CRC-32 variant spec.md §4.1 requires: polynomial
// 0x04C11DB7 (reflected 0xEDB88320), initial/final XOR 0xFFFFFFFF, reflected
// input and output -- the same variant as PKZIP/Ethernet/POSIX cksum-32.
// go-crc's CRC32ISOHDLC preset is exactly this variant, so the engine is
// built on it instead of a hand-rolled table.
func crc32Compute(data []byte) uint32 {
	return crc.CRC32.Calc(data)
}

// CRC32Compute computes the CRC-32 of data directly, with no seed byte.
// CRC32Compute(nil) == 0; CRC32Compute([]byte("123456789")) == 0xCBF43926.
func CRC32Compute(data []byte) uint32 {
	return crc32Compute(data)
}

// seededCRC32 computes the CRC-32 over a single seed byte followed by
// payload, per spec.md §4.1's seed-byte rule.
func seededCRC32(seed byte, payload []byte) uint32 {
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, seed)
	buf = append(buf, payload...)
	return crc32Compute(buf)
}

// ValidateInputCRC reports whether a Bluetooth input frame's trailing
// 4-byte CRC matches the CRC-32 of [0xA1] ++ frame[0:74]. It never panics:
// a frame shorter than 78 bytes simply fails validation.
func ValidateInputCRC(frame []byte) bool {
	return validateFrameCRC(seedInput, frame)
}

// ValidateOutputCRC mirrors ValidateInputCRC with the output seed byte
// 0xA2, for verifying frames built by BuildBT.
func ValidateOutputCRC(frame []byte) bool {
	return validateFrameCRC(seedOutput, frame)
}

func validateFrameCRC(seed byte, frame []byte) bool {
	if len(frame) < btFrameSize {
		return false
	}
	want := readU32LE(frame, btPayloadSize)
	got := seededCRC32(seed, frame[:btPayloadSize])
	return want == got
}

// AppendOutputCRC overwrites frame[74:78] with the little-endian CRC-32 of
// [0xA2] ++ frame[0:74]. frame must be at least 78 bytes long.
func AppendOutputCRC(frame []byte) {
	sum := seededCRC32(seedOutput, frame[:btPayloadSize])
	putU32LE(frame, btPayloadSize, sum)
}
