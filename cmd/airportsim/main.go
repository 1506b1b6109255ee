// airportsim runs the sample airports headless and prints their status after
// every cycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"airport-simulator/internal/command"
	"airport-simulator/internal/config"
	"airport-simulator/internal/game/airport"
	"airport-simulator/internal/game/simulation"
	"airport-simulator/internal/logging"
	"airport-simulator/internal/report"

	"github.com/davecgh/go-spew/spew"
	"github.com/labstack/gommon/log"
	"github.com/mattn/go-isatty"
)

func main() {
	cfg := config.LoadFromEnv()

	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flag.IntVar(&cfg.StepMinutes, "step", cfg.StepMinutes, "simulated minutes per cycle")
	flag.IntVar(&cfg.Cycles, "cycles", cfg.Cycles, "number of cycles to run")
	flag.DurationVar(&cfg.TickInterval, "interval", cfg.TickInterval, "wall-clock pause between cycles")
	flag.DurationVar(&cfg.DelayLead, "delaylead", cfg.DelayLead, "how long before departure a delay may be rolled")
	flag.Float64Var(&cfg.DelayProbability, "delayprob", cfg.DelayProbability, "probability of a delay per eligible tick")
	flag.BoolVar(&cfg.CheckRunwayLength, "runwaylength", cfg.CheckRunwayLength, "skip runways too short for the aircraft")
	flag.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "debug, info, warn, error or off")
	flag.StringVar(&cfg.LogDir, "logdir", cfg.LogDir, "directory for the rotated log file; empty logs to stderr only")
	all := flag.Bool("all", false, "simulate every sample airport, not just SVO")
	exec := flag.String("exec", "", "semicolon separated commands applied before the first cycle, e.g. \"MAINT 06L/24R;CANCEL TK 321\"")
	events := flag.Int("events", 5, "recent events printed per cycle")
	dump := flag.Bool("dump", false, "dump the final snapshots")
	color := flag.Bool("color", isatty.IsTerminal(os.Stdout.Fd()), "colour statuses")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "airportsim: %v\n", err)
		os.Exit(2)
	}
	cmds, err := command.ParseList(*exec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "airportsim: %v\n", err)
		os.Exit(2)
	}

	lg, err := logging.New("airportsim", cfg.LogLevel, cfg.LogDir, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "airportsim: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, lg, cmds, *all, *events, *dump, *color); err != nil {
		lg.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, lg *log.Logger, cmds []command.Command,
	all bool, events int, dump, colored bool) error {
	start := time.Now().Truncate(time.Minute)

	var airports []*airport.Airport
	if all {
		aps, err := airport.Samples(start)
		if err != nil {
			return err
		}
		airports = aps
	} else {
		ap, err := airport.Sample(start)
		if err != nil {
			return err
		}
		airports = append(airports, ap)
	}

	world := simulation.NewWorld()
	for _, ap := range airports {
		world.Add(simulation.NewSimulation(ap, cfg.SimulationOptions(lg)...))
	}

	// Commands go to the first airport, the one printed first.
	for _, cmd := range cmds {
		msg, err := cmd.Apply(world.Simulations()[0])
		if err != nil {
			lg.Warnf("COMMAND: %s: %v", cmd, err)
			continue
		}
		lg.Infof("COMMAND: %s", msg)
	}

	p := report.NewPrinter(os.Stdout, colored)
	now := start
	for cycle := 0; cycle < cfg.Cycles; cycle++ {
		if err := world.Step(ctx, now); err != nil {
			return fmt.Errorf("cycle %d: %w", cycle, err)
		}
		fmt.Printf("\n##### Cycle %d #####\n", cycle+1)
		for _, sn := range world.Snapshots() {
			p.Status(sn)
			p.Summary(sn, events)
		}

		now = now.Add(cfg.Step())
		if cfg.TickInterval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.TickInterval):
			}
		}
	}

	if dump {
		spew.Fdump(os.Stdout, world.Snapshots())
	}
	lg.Infof("simulation finished after %d cycles", cfg.Cycles)
	return nil
}
