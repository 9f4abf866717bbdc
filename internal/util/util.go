// internal/util/util.go
// Package util holds small formatting helpers shared by reports and
// commands.
package util

import (
	"fmt"
	"os"
)

// WriteFile writes data to a file with 0o644 permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// FormatBytes renders a byte count in IEC units, keeping the raw count for
// values under 1 KiB.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatRate renders a words-per-second value.
func FormatRate(wps float64) string {
	return fmt.Sprintf("%.3f words/sec", wps)
}
