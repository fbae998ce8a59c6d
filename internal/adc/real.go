//go:build linux

package adc

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader samples an MCP3208 ADC by bit-banging its SPI protocol over
// the Linux GPIO character device. Bit-banging keeps the kernel SPI driver
// out of the picture, so the daemon runs on Pis where spidev is not
// enabled.
type RealReader struct {
	chip    *gpiocdev.Chip
	clk     *gpiocdev.Line
	mosi    *gpiocdev.Line
	miso    *gpiocdev.Line
	cs      *gpiocdev.Line
	channel int
}

// NewRealReader creates an ADC reader on actual Raspberry Pi hardware.
// channel selects the MCP3208 input (0-7).
func NewRealReader(pinCLK, pinMOSI, pinMISO, pinCS, channel int) (*RealReader, error) {
	if channel < 0 || channel > 7 {
		return nil, fmt.Errorf("adc channel %d out of range 0-7", channel)
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip, channel: channel}

	// CS idles high (device deselected), CLK idles low.
	r.cs, err = chip.RequestLine(pinCS, gpiocdev.AsOutput(1))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request CS pin %d: %w", pinCS, err)
	}
	r.clk, err = chip.RequestLine(pinCLK, gpiocdev.AsOutput(0))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request CLK pin %d: %w", pinCLK, err)
	}
	r.mosi, err = chip.RequestLine(pinMOSI, gpiocdev.AsOutput(0))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request MOSI pin %d: %w", pinMOSI, err)
	}
	r.miso, err = chip.RequestLine(pinMISO, gpiocdev.AsInput)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request MISO pin %d: %w", pinMISO, err)
	}

	return r, nil
}

// Read performs one MCP3208 single-ended conversion and returns the 12-bit
// result.
func (r *RealReader) Read() (uint16, error) {
	if err := r.cs.SetValue(0); err != nil {
		return 0, fmt.Errorf("assert CS: %w", err)
	}
	defer r.cs.SetValue(1)

	// Command: start bit, single-ended mode, 3-bit channel select, MSB
	// first.
	cmd := []int{1, 1, (r.channel >> 2) & 1, (r.channel >> 1) & 1, r.channel & 1}
	for _, bit := range cmd {
		if err := r.writeBit(bit); err != nil {
			return 0, err
		}
	}

	// One null bit precedes the data.
	if _, err := r.readBit(); err != nil {
		return 0, err
	}

	var value uint16
	for i := 0; i < 12; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		value = value<<1 | uint16(bit)
	}
	return value, nil
}

// writeBit presents one bit on MOSI and pulses the clock. The MCP3208
// latches DIN on the rising edge.
func (r *RealReader) writeBit(bit int) error {
	if err := r.mosi.SetValue(bit); err != nil {
		return fmt.Errorf("set MOSI: %w", err)
	}
	if err := r.clk.SetValue(1); err != nil {
		return fmt.Errorf("clock high: %w", err)
	}
	if err := r.clk.SetValue(0); err != nil {
		return fmt.Errorf("clock low: %w", err)
	}
	return nil
}

// readBit pulses the clock and samples MISO. The MCP3208 shifts DOUT on
// the falling edge.
func (r *RealReader) readBit() (int, error) {
	if err := r.clk.SetValue(1); err != nil {
		return 0, fmt.Errorf("clock high: %w", err)
	}
	if err := r.clk.SetValue(0); err != nil {
		return 0, fmt.Errorf("clock low: %w", err)
	}
	v, err := r.miso.Value()
	if err != nil {
		return 0, fmt.Errorf("read MISO: %w", err)
	}
	return v, nil
}

// Close releases GPIO resources.
// Reconfigures output pins to input with pull-down (matching Pi boot
// defaults) before closing to ensure clean state for system
// shutdown/reboot.
func (r *RealReader) Close() error {
	var errs []error

	for _, l := range []struct {
		name string
		line *gpiocdev.Line
	}{
		{"CS", r.cs},
		{"CLK", r.clk},
		{"MOSI", r.mosi},
		{"MISO", r.miso},
	} {
		if l.line == nil {
			continue
		}
		if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", l.name, err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", l.name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
