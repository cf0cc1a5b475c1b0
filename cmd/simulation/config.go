package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"kinematics-sim/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	envPrefix = "KINEMATICS_"

	surfaceWindow   = "window"
	surfaceTerminal = "terminal"
	surfacePNG      = "png"

	// defaultSnapshotDuration is used for PNG runs without --duration.
	defaultSnapshotDuration = 10 * time.Second
)

type config struct {
	Duration  time.Duration
	Tick      time.Duration
	Mode      string
	Policy    string
	Surface   string
	Width     int
	Height    int
	Scale     float64
	Scenario  string
	Output    string
	StatsAddr string
	Profile   string
	LogFile   string
}

func (c *config) bindFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&c.Duration, "duration", 0, "simulated time to run, 0 runs until quit")
	fs.DurationVar(&c.Tick, "tick", 10*time.Millisecond, "engine tick")
	fs.StringVar(&c.Mode, "mode", simulation.FixedTick.String(), "tick mode: fixed or measured")
	fs.StringVar(&c.Policy, "policy", simulation.FixedStep.String(), "catch-up policy: fixed-step or single")
	fs.StringVar(&c.Surface, "surface", surfaceWindow, "drawing surface: window, terminal or png")
	fs.IntVar(&c.Width, "width", 800, "surface width in pixels")
	fs.IntVar(&c.Height, "height", 600, "surface height in pixels")
	fs.Float64Var(&c.Scale, "scale", simulation.DefaultScale, "pixels per meter")
	fs.StringVar(&c.Scenario, "scenario", "", "YAML scenario file, the demo set is used when empty")
	fs.StringVar(&c.Output, "output", "kinematics.png", "PNG path for the png surface")
	fs.StringVar(&c.StatsAddr, "stats-addr", "", "serve engine stats over HTTP on this address")
	fs.StringVar(&c.Profile, "profile", "", "write a cpu or mem profile")
	fs.StringVar(&c.LogFile, "log-file", "", "log destination for the terminal surface")
}

// envName maps a flag name to its environment variable.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv loads the optional .env files and uses KINEMATICS_* variables for
// every flag not given on the command line.
func applyEnv(fs *pflag.FlagSet, files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		v, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if setErr := fs.Set(f.Name, v); setErr != nil {
			err = fmt.Errorf("%s: %w", envName(f.Name), setErr)
		}
	})
	return err
}

func (c *config) validate() (simulation.TickMode, simulation.CatchUpPolicy, error) {
	mode, err := simulation.ParseTickMode(c.Mode)
	if err != nil {
		return 0, 0, err
	}
	policy, err := simulation.ParseCatchUpPolicy(c.Policy)
	if err != nil {
		return 0, 0, err
	}
	switch c.Surface {
	case surfaceWindow, surfaceTerminal, surfacePNG:
	default:
		return 0, 0, fmt.Errorf("unknown surface %q", c.Surface)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return 0, 0, fmt.Errorf("unknown profile %q, want cpu or mem", c.Profile)
	}
	if c.Tick <= 0 {
		return 0, 0, fmt.Errorf("%w: got %s", simulation.ErrInvalidTick, c.Tick)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return 0, 0, fmt.Errorf("surface size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Surface == surfacePNG && c.Duration == 0 {
		c.Duration = defaultSnapshotDuration
	}
	return mode, policy, nil
}
