package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/numate/internal/config"
	"github.com/ivlev/numate/internal/easing"
	"github.com/ivlev/numate/internal/engine"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Fatalf("[-] Error: %v", err)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "numate",
		Short:         "Tween values along a storyboard timeline",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newRunCmd(), newCurvesCmd())
	return root
}

type runOptions struct {
	configPath string
	loop       bool
	easing     string
	tick       time.Duration
	timeout    time.Duration
	scale      float64
	stats      bool
	logLevel   string
	width      int
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play the demo timeline in the terminal",
		Example: `  numate run
  numate run --easing outBack --scale 0.5
  numate run --config numate.yaml --loop --timeout 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			project := engine.NewProject(cfg, cmd.OutOrStdout())
			project.Logger = logger
			if _, err := project.Run(ctx); err != nil {
				return fmt.Errorf("timeline failed: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.BoolVar(&opts.loop, "loop", false, "Rebuild the timeline every time it finishes")
	f.StringVar(&opts.easing, "easing", "", "Easing curve name (see `numate curves`)")
	f.DurationVar(&opts.tick, "tick", 0, "Tick interval (default 25ms)")
	f.DurationVar(&opts.timeout, "timeout", 0, "Stop after this long (0 = no limit)")
	f.Float64Var(&opts.scale, "scale", 0, "Multiply every key duration")
	f.BoolVar(&opts.stats, "stats", false, "Print a performance report and append it to benchmark.log")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.IntVar(&opts.width, "width", 0, "Zoom bar width in cells")
	return cmd
}

// resolve loads the config file, if any, and applies the flags that were set.
func (o *runOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		fmt.Fprintf(cmd.OutOrStdout(), "[*] Config: %s\n", o.configPath)
	}

	f := cmd.Flags()
	if f.Changed("loop") {
		cfg.Loop = o.loop
	}
	if f.Changed("easing") {
		cfg.Easing = o.easing
	}
	if f.Changed("tick") {
		cfg.TickInterval = o.tick
	}
	if f.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if f.Changed("scale") {
		cfg.DurationScale = o.scale
	}
	if f.Changed("stats") {
		cfg.ShowStats = o.stats
	}
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("width") {
		cfg.Width = o.width
	}
	cfg.BuildVersion = version

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCurvesCmd() *cobra.Command {
	var at []float64
	cmd := &cobra.Command{
		Use:   "curves",
		Short: "List easing curves",
		Example: `  numate curves
  numate curves --at 0.25,0.5,0.75`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range easing.Names() {
				if len(at) == 0 {
					fmt.Fprintln(out, name)
					continue
				}
				values := make([]string, 0, len(at))
				for _, t := range at {
					v, err := easing.Evaluate(name, t)
					if err != nil {
						return err
					}
					values = append(values, fmt.Sprintf("%.4f", v))
				}
				fmt.Fprintf(out, "%-12s %s\n", name, strings.Join(values, " "))
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&at, "at", nil, "Evaluate every curve at these progress values")
	return cmd
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
