package perf

import (
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// Sampler provides the platform CPU and resident-memory samples the
// monitor ingests each frame.
type Sampler interface {
	Sample() (cpuPercent, memoryMB float64, err error)
}

// SystemSampler reads system CPU utilization and this process's resident
// memory via gopsutil.
type SystemSampler struct {
	proc *process.Process
}

// NewSystemSampler creates a sampler bound to the current process.
func NewSystemSampler() (*SystemSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &SystemSampler{proc: proc}, nil
}

// Sample returns the system-wide CPU percentage since the previous call
// and the process resident set size in megabytes.
func (s *SystemSampler) Sample() (float64, float64, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return 0, 0, err
	}
	var cpuPct float64
	if len(percents) > 0 {
		cpuPct = percents[0]
	}

	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return cpuPct, 0, err
	}

	return cpuPct, float64(mem.RSS) / (1024 * 1024), nil
}

// StaticSampler returns fixed values; used in tests and as a fallback
// when platform sampling is unavailable.
type StaticSampler struct {
	CPUPercent float64
	MemoryMB   float64
}

// Sample returns the configured values.
func (s *StaticSampler) Sample() (float64, float64, error) {
	return s.CPUPercent, s.MemoryMB, nil
}
