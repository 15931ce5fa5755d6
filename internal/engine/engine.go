// Package engine hosts a timeline run: it authors the demo storyboard,
// ticks it under a Director, draws every tick and reports the result.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ivlev/numate/internal/clock"
	"github.com/ivlev/numate/internal/config"
	"github.com/ivlev/numate/internal/director"
	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/renderer"
	"github.com/ivlev/numate/internal/scheduler"
	"github.com/ivlev/numate/internal/storyboard"
	"github.com/ivlev/numate/internal/system"
)

// Warm is the tint the demo camera fades to.
var Warm = interp.RGBA{R: 1, G: 0.55, B: 0.1, A: 1}

type Project struct {
	Config    *config.Config
	Out       io.Writer
	Logger    *slog.Logger
	Clock     clock.Func
	Scheduler scheduler.Scheduler

	// BenchmarkLog receives one line per run when ShowStats is set.
	BenchmarkLog string

	Camera *renderer.Camera

	keys   atomic.Int32
	builds atomic.Int32
}

func NewProject(cfg *config.Config, out io.Writer) *Project {
	return &Project{
		Config:       cfg,
		Out:          out,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:        clock.System,
		BenchmarkLog: "benchmark.log",
		Camera:       renderer.NewCamera(),
	}
}

// Run plays the timeline until it finishes, the configured timeout passes
// or ctx is cancelled. A looping timeline only stops on the latter two.
func (p *Project) Run(ctx context.Context) (system.Report, error) {
	report := system.Report{Build: p.Config.BuildVersion, Started: time.Now()}

	sched := p.Scheduler
	if sched == nil {
		sched = scheduler.NewInterval(p.Config.TickInterval)
	}
	draw := renderer.New(p.Out, p.Config.Width)
	done := make(chan struct{})

	d := director.New(ctx, sched,
		director.WithClock(p.Clock),
		director.WithLogger(p.Logger),
		director.OnTick(func(*storyboard.Storyboard) {
			if _, err := draw.Frame(p.Camera); err != nil {
				p.Logger.Warn("frame dropped", "error", err)
			}
		}),
	)

	fmt.Fprintln(p.Out, "--- [PROJECT: STORYBOARD] ---")
	fmt.Fprintf(p.Out, "[*] Easing: %s | Scale: x%.2f | Tick: %v | Loop: %v\n",
		p.Config.Easing, p.Config.DurationScale, p.Config.TickInterval, p.Config.Loop)
	fmt.Fprintln(p.Out, "-----------------------------")

	_, err := d.Storyboard(p.Config.Loop, func(sb *storyboard.Storyboard) error {
		if err := p.Build(sb); err != nil {
			return err
		}
		p.builds.Add(1)
		if !p.Config.Loop {
			sb.OnFinished(func() { close(done) })
		}
		return nil
	})
	if err != nil {
		d.Cancel()
		d.Wait()
		return report, fmt.Errorf("build timeline: %w", err)
	}

	var timeout <-chan time.Time
	if p.Config.Timeout > 0 {
		timer := time.NewTimer(p.Config.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var outcome string
	select {
	case <-done:
		outcome = "[*] Timeline finished"
	case <-timeout:
		outcome = fmt.Sprintf("[!] Timeout after %v", p.Config.Timeout)
	case <-ctx.Done():
		outcome = "[!] Interrupted"
	}

	// Out is shared with the ticking task until Wait returns
	d.Cancel()
	runErr := d.Wait()
	fmt.Fprintln(p.Out, outcome)

	report.Elapsed = time.Since(report.Started)
	report.Frames = draw.Frames()
	report.Keys = int(p.keys.Load())
	report.Loops = int(p.builds.Load()) - 1

	if p.Config.ShowStats {
		stats, err := system.Sample()
		if err != nil {
			p.Logger.Warn("process stats incomplete", "error", err)
		}
		report.Stats = stats
		fmt.Fprint(p.Out, report.String())
		if p.BenchmarkLog != "" {
			if err := system.AppendLog(p.BenchmarkLog, report); err != nil {
				fmt.Fprintf(p.Out, "[!] Failed to write %s: %v\n", p.BenchmarkLog, err)
			}
		}
	}

	return report, runErr
}
