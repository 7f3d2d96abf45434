// v1
// mcp3008.go
package hw

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// mcp3008 reads the 10-bit MCP3008 ADC over SPI and scales each sample to
// the 16-bit range the reading pipeline works in.
type mcp3008 struct {
	mu   sync.Mutex
	port spi.PortCloser
	conn spi.Conn
}

func openMCP3008(portName string) (*mcp3008, error) {
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", portName, err)
	}
	conn, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect MCP3008 on %q: %w", portName, err)
	}
	return &mcp3008{port: port, conn: conn}, nil
}

// ReadChannel samples one single-ended channel (0..7).
func (m *mcp3008) ReadChannel(channel int) (uint16, error) {
	if channel < 0 || channel > 7 {
		return 0, fmt.Errorf("mcp3008 channel %d out of range", channel)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// start bit, then single-ended mode + channel in the top nibble
	tx := []byte{0x01, byte(0x80 | channel<<4), 0x00}
	rx := make([]byte, 3)
	if err := m.conn.Tx(tx, rx); err != nil {
		return 0, fmt.Errorf("mcp3008 tx: %w", err)
	}
	raw := uint16(rx[1]&0x03)<<8 | uint16(rx[2])
	return scale10to16(raw), nil
}

func (m *mcp3008) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil {
		return nil
	}
	err := m.port.Close()
	m.port = nil
	return err
}

// scale10to16 stretches a 10-bit sample onto the full 0..65535 range so the
// endpoints map exactly (0 -> 0, 1023 -> 65535).
func scale10to16(raw uint16) uint16 {
	return uint16(uint32(raw) * 65535 / 1023)
}
