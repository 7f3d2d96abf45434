// v0
// vitals.go
package hw

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
)

// ProcVitals reads host liveness figures from procfs for the heartbeat
// payload.
type ProcVitals struct {
	fs         procfs.FS
	uptimePath string
}

// NewProcVitals mounts the default /proc filesystem.
func NewProcVitals() (*ProcVitals, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("mount procfs: %w", err)
	}
	return &ProcVitals{fs: fs, uptimePath: "/proc/uptime"}, nil
}

// Uptime returns whole seconds since boot.
func (v *ProcVitals) Uptime() (int64, error) {
	b, err := os.ReadFile(v.uptimePath)
	if err != nil {
		return 0, fmt.Errorf("read uptime: %w", err)
	}
	return parseUptimeSeconds(string(b))
}

// Memory returns total and available memory in kilobytes.
func (v *ProcVitals) Memory() (totalKB, availableKB uint64, err error) {
	mi, err := v.fs.Meminfo()
	if err != nil {
		return 0, 0, fmt.Errorf("read meminfo: %w", err)
	}
	if mi.MemTotal == nil || mi.MemAvailable == nil {
		return 0, 0, fmt.Errorf("meminfo missing MemTotal/MemAvailable")
	}
	return *mi.MemTotal, *mi.MemAvailable, nil
}

func parseUptimeSeconds(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime file")
	}
	up, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse uptime %q: %w", fields[0], err)
	}
	return int64(up), nil
}
