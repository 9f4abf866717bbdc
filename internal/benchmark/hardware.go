// internal/benchmark/hardware.go
package benchmark

import "runtime"

// HardwareInfo records where a run was produced, so golden drift can be
// traced to a platform change rather than a code change.
type HardwareInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

// DetectHardware gathers information about the current system.
func DetectHardware() HardwareInfo {
	return HardwareInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}
