// Package adc provides 12-bit ADC sampling with hardware abstraction.
// The real implementation bit-bangs an MCP3208 over the Linux GPIO
// character device. The fake implementation allows testing without
// hardware.
package adc

// Reader reads raw ADC samples.
type Reader interface {
	// Read returns one raw 12-bit sample in [0, 4095].
	Read() (uint16, error)

	// Close releases ADC resources.
	Close() error
}

// Default pin assignments (BCM numbering, SPI0 pins used as plain GPIO).
const (
	DefaultPinCLK  = 11 // SCLK
	DefaultPinMOSI = 10 // DIN
	DefaultPinMISO = 9  // DOUT
	DefaultPinCS   = 8  // CE0
)

// DefaultChannel is the MCP3208 input channel the thermistor divider is
// wired to.
const DefaultChannel = 0
