package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kinematics-sim/internal/monitoring"
	"kinematics-sim/internal/scenario"
	"kinematics-sim/internal/simulation"
	"kinematics-sim/internal/visualization"
	"kinematics-sim/internal/visualization/desktop"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

func newRootCmd() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:   "simulation",
		Short: "Run kinematic bodies on a fixed-step scheduler.",
		Long: `Run kinematic bodies on a fixed-step scheduler. Every body ` +
			`advances by its own interval and draws itself as a square on ` +
			`the chosen surface.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnv(cmd.Flags(), ".env")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	cfg.bindFlags(cmd.Flags())
	return cmd
}

// session is the state shared by every surface runner.
type session struct {
	cfg     *config
	mode    simulation.TickMode
	policy  simulation.CatchUpPolicy
	logger  *log.Logger
	scene   *scenario.File
	display simulation.StatsSink
}

func run(ctx context.Context, cfg *config) error {
	mode, policy, err := cfg.validate()
	if err != nil {
		return err
	}

	scene := scenario.Demo()
	if cfg.Scenario != "" {
		if scene, err = scenario.LoadFile(cfg.Scenario); err != nil {
			return err
		}
	}

	startProfile(cfg.Profile)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &session{
		cfg:    cfg,
		mode:   mode,
		policy: policy,
		logger: log.New(os.Stderr, "", log.LstdFlags),
		scene:  scene,
	}

	switch cfg.Surface {
	case surfacePNG:
		return s.runSnapshot(ctx)
	case surfaceTerminal:
		return s.runTerminal(ctx)
	default:
		return s.runWindow(ctx)
	}
}

func startProfile(kind string) {
	var mode func(*profile.Profile)
	switch kind {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	default:
		return
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	atexit.Register(p.Stop)
}

// newEngine clears the surface, builds the bodies and starts the monitor
// when one is configured.
func (s *session) newEngine(surface simulation.Surface) (*simulation.Engine, error) {
	if c, ok := surface.(simulation.Clearer); ok {
		c.Clear()
	}

	entities, err := s.scene.Entities()
	if err != nil {
		return nil, err
	}
	eng, err := simulation.NewEngine(surface, entities, simulation.EngineConfig{
		Policy:  s.policy,
		Scale:   s.cfg.Scale,
		Logger:  s.logger,
		Display: s.display,
	})
	if err != nil {
		return nil, err
	}

	if s.cfg.StatsAddr != "" {
		if _, err := monitoring.NewMonitor(eng, s.logger).StartServer(s.cfg.StatsAddr); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func (s *session) runOptions() simulation.RunOptions {
	return simulation.RunOptions{
		Duration: s.cfg.Duration,
		Tick:     s.cfg.Tick,
		Mode:     s.mode,
	}
}

func (s *session) runSnapshot(ctx context.Context) error {
	canvas, err := visualization.NewCanvas(s.cfg.Width, s.cfg.Height, nil)
	if err != nil {
		return err
	}
	eng, err := s.newEngine(canvas)
	if err != nil {
		return err
	}
	if err := eng.Run(ctx, s.runOptions()); err != nil {
		return err
	}
	if err := canvas.SavePNG(s.cfg.Output); err != nil {
		return err
	}
	s.logger.Printf("%s, snapshot written to %s", eng.Stats(), s.cfg.Output)
	return nil
}

func (s *session) runTerminal(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	atexit.Register(screen.Fini)

	// The screen owns the terminal, logs go to a file or nowhere.
	out := io.Discard
	if s.cfg.LogFile != "" {
		fh, err := os.OpenFile(s.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			screen.Fini()
			return fmt.Errorf("opening log file: %w", err)
		}
		defer fh.Close()
		out = fh
	}
	s.logger = log.New(out, "", log.LstdFlags)

	term, err := visualization.NewTerminal(screen, visualization.DefaultCellWidth, visualization.DefaultCellHeight)
	if err != nil {
		screen.Fini()
		return err
	}
	s.display = term

	eng, err := s.newEngine(term)
	if err != nil {
		screen.Fini()
		return err
	}
	go term.WatchKeys(eng.Stop)

	err = eng.Run(ctx, s.runOptions())
	screen.Fini()
	fmt.Println(eng.Stats())
	return err
}

func (s *session) runWindow(ctx context.Context) error {
	canvas, err := visualization.NewCanvas(s.cfg.Width, s.cfg.Height, nil)
	if err != nil {
		return err
	}
	window := desktop.NewWindow(canvas)
	s.display = window

	eng, err := s.newEngine(canvas)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- eng.Run(ctx, s.runOptions())
	}()

	ebiten.SetWindowSize(s.cfg.Width, s.cfg.Height)
	ebiten.SetWindowTitle("Kinematics Simulation")
	gameErr := ebiten.RunGame(window)

	eng.Stop()
	runErr := <-done
	s.logger.Println(eng.Stats())
	if gameErr != nil {
		return fmt.Errorf("running window: %w", gameErr)
	}
	return runErr
}
