// Package system samples the process and records run reports.
package system

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a sample of the running process.
type Stats struct {
	RSS        uint64
	CPUPercent float64
	Threads    int32
}

// Sample reads the current process statistics. Fields that cannot be read on
// this platform stay zero; the first failure is returned alongside.
func Sample() (Stats, error) {
	var s Stats
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("open process: %w", err)
	}

	var firstErr error
	if mem, err := proc.MemoryInfo(); err == nil {
		s.RSS = mem.RSS
	} else {
		firstErr = fmt.Errorf("memory info: %w", err)
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	} else if firstErr == nil {
		firstErr = fmt.Errorf("cpu percent: %w", err)
	}
	if n, err := proc.NumThreads(); err == nil {
		s.Threads = n
	} else if firstErr == nil {
		firstErr = fmt.Errorf("num threads: %w", err)
	}
	return s, firstErr
}

// Report summarizes one timeline run.
type Report struct {
	Build   string
	Started time.Time
	Elapsed time.Duration
	Frames  int
	Keys    int
	Loops   int
	Stats   Stats
}

// FPS is the effective frame rate of the run.
func (r Report) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// String is the multi-line report printed at the end of a run.
func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Frames: %d\n"+
			"Keys: %d\n"+
			"Loops: %d\n"+
			"Effective FPS: %.2f\n"+
			"CPU: %.1f%% | RSS: %.1f MiB | Threads: %d\n"+
			"----------------------------\n",
		r.Build, r.Elapsed.Seconds(), r.Frames, r.Keys, r.Loops, r.FPS(),
		r.Stats.CPUPercent, float64(r.Stats.RSS)/(1<<20), r.Stats.Threads,
	)
}

// LogLine is the single line appended to the benchmark log.
func (r Report) LogLine() string {
	return fmt.Sprintf("[%s] Build: %s | Frames: %d | Keys: %d | Total: %.2fs | FPS: %.2f | CPU: %.1f%% | RSS: %d\n",
		r.Started.Format("2006-01-02 15:04:05"),
		r.Build,
		r.Frames,
		r.Keys,
		r.Elapsed.Seconds(),
		r.FPS(),
		r.Stats.CPUPercent,
		r.Stats.RSS,
	)
}

// AppendLog appends the report's log line to path, creating the file.
func AppendLog(path string, r Report) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(r.LogLine()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
