// Package ds4 decodes and encodes the Sony DualShock 4 HID report set.
//
// It covers input-report parsing (USB and Bluetooth), output-report
// construction, Bluetooth CRC-32 framing, and IMU calibration -- all as
// pure functions over byte buffers and value types. Device discovery,
// transport I/O, and multi-device management are out of scope; see the
// Transport interface for the boundary this package expects a caller to
// fill in.
package ds4
