package cliconfig

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kbhid/ds4codec/ds4"
	ds4log "github.com/kbhid/ds4codec/internal/log"
)

// DecodeCommand decodes one captured report -- an input report by default,
// or a calibration feature report with --calibration -- and prints the
// result as indented JSON. This is a consumer of the ds4 package, not part
// of it; the codec itself has no CLI (spec.md §6).
type DecodeCommand struct {
	Hex         string `help:"Report bytes as a hex string (e.g. 01800...)." xor:"source"`
	File        string `help:"Path to a file containing raw report bytes." xor:"source" type:"path"`
	Transport   string `help:"Force a transport instead of auto-detecting." enum:"auto,usb,bluetooth" default:"auto"`
	Calibration bool   `help:"Treat the input as a 37-byte calibration feature report instead of an input report."`
	NoVerifyCRC bool   `help:"Skip Bluetooth CRC-32 verification."`
}

func (c *DecodeCommand) Run(logger *slog.Logger, raw ds4log.RawLogger) error {
	data, err := c.readBytes()
	if err != nil {
		return err
	}
	raw.Log(true, data)

	if c.Calibration {
		return c.runCalibration(data)
	}
	return c.runInput(logger, data)
}

func (c *DecodeCommand) readBytes() ([]byte, error) {
	switch {
	case c.Hex != "":
		data, err := hex.DecodeString(strings.TrimSpace(c.Hex))
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
		return data, nil
	case c.File != "":
		data, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("one of --hex or --file is required")
	}
}

func (c *DecodeCommand) runInput(logger *slog.Logger, data []byte) error {
	var (
		state InputStateJSON
		perr  *ds4.ParseError
		out   ds4.InputState
	)

	switch c.Transport {
	case "usb":
		out, perr = ds4.DecodeUSB(data)
	case "bluetooth":
		out, perr = ds4.DecodeBT(data, !c.NoVerifyCRC)
	default:
		if c.NoVerifyCRC && len(data) > 0 && data[0] == ds4.InputReportIDBluetooth {
			out, perr = ds4.DecodeBT(data, false)
		} else {
			out, perr = ds4.Decode(data)
		}
	}
	if perr != nil {
		logger.Error("decode failed", "kind", perr.Kind.String(), "error", perr.Error())
		return perr
	}

	state = InputStateJSON{InputState: out}
	return printJSON(state)
}

func (c *DecodeCommand) runCalibration(data []byte) error {
	var (
		cal  ds4.CalibrationData
		perr *ds4.ParseError
	)

	switch c.Transport {
	case "bluetooth":
		cal, perr = ds4.ParseCalibrationBT(data)
	case "usb":
		cal, perr = ds4.ParseCalibrationUSB(data)
	default:
		if len(data) > 0 && data[0] == ds4.FeatureReportIDBluetooth {
			cal, perr = ds4.ParseCalibrationBT(data)
		} else {
			cal, perr = ds4.ParseCalibrationUSB(data)
		}
	}
	if perr != nil {
		return perr
	}
	return printJSON(cal)
}

// InputStateJSON wraps ds4.InputState so the CLI output can be extended
// with CLI-only presentation fields later without touching the codec's
// own struct tags.
type InputStateJSON struct {
	ds4.InputState
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
