package main

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"time"

	"airport-simulator/internal/command"
	"airport-simulator/internal/config"
	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/airport"
	"airport-simulator/internal/game/flight"
	"airport-simulator/internal/game/simulation"
	"airport-simulator/internal/logging"
	"airport-simulator/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/labstack/gommon/log"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	defaultTickInterval = time.Second
	maxReplies          = 4
)

var (
	colorFree        = color.RGBA{0, 200, 0, 255}
	colorBusy        = color.RGBA{220, 40, 40, 255}
	colorMaintenance = color.RGBA{230, 180, 0, 255}
	colorBoarding    = color.RGBA{0, 200, 220, 255}
	colorDone        = color.RGBA{120, 120, 120, 255}
)

type Game struct {
	width, height int

	sim  *simulation.Simulation
	lg   *log.Logger
	step time.Duration

	clock        time.Time
	tickInterval time.Duration
	lastTick     time.Time
	paused       bool

	gates, runways, flights, events ui.Panel
	commandInput                    *ui.TextInput
	replies                         []string
}

func NewGame(cfg config.Config, lg *log.Logger, width, height int) (*Game, error) {
	start := time.Now().Truncate(time.Minute)
	ap, err := airport.Sample(start)
	if err != nil {
		return nil, err
	}

	g := &Game{
		width:        width,
		height:       height,
		sim:          simulation.NewSimulation(ap, cfg.SimulationOptions(lg)...),
		lg:           lg,
		step:         cfg.Step(),
		clock:        start,
		tickInterval: cfg.TickInterval,
		lastTick:     time.Now(),
	}
	if g.tickInterval <= 0 {
		g.tickInterval = defaultTickInterval
	}

	col := width / 3
	g.gates = ui.Panel{Title: "GATES", X: 10, Y: 30, Width: col - 15, Height: height - 140}
	g.runways = ui.Panel{Title: "RUNWAYS", X: col, Y: 30, Width: col - 5, Height: 120}
	g.flights = ui.Panel{Title: "FLIGHTS", X: col, Y: 160, Width: 2*col - 10, Height: 250}
	g.events = ui.Panel{Title: "EVENTS", X: col, Y: 420, Width: 2*col - 10, Height: height - 530}
	g.commandInput = ui.NewTextInput(10, height-48, width/2, 30, g.execute)

	// First tick right away so the board is not empty.
	g.sim.Step(g.clock)
	return g, nil
}

func (g *Game) Update() error {
	g.handleInput()
	g.commandInput.Update()

	if g.paused || time.Since(g.lastTick) < g.tickInterval {
		return nil
	}
	g.lastTick = time.Now()
	g.clock = g.clock.Add(g.step)
	g.sim.Step(g.clock)
	if err := g.sim.CheckInvariants(); err != nil {
		// Bindings are corrupt; nothing shown after this would be true.
		return err
	}
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.commandInput.IsActive = g.commandInput.IsClicked(x, y)
	}
	if g.commandInput.IsActive {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.commandInput.IsActive = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
}

func (g *Game) execute(line string) {
	cmd, err := command.Parse(line)
	if err != nil {
		g.reply(err.Error())
		return
	}
	if cmd.Kind == command.SPEED {
		g.step = time.Duration(cmd.Minutes) * time.Minute
		g.reply(fmt.Sprintf("Clock now advances %d minutes per tick", cmd.Minutes))
		return
	}
	msg, err := cmd.Apply(g.sim)
	if err != nil {
		g.lg.Warnf("COMMAND: %s: %v", cmd, err)
		g.reply(err.Error())
		return
	}
	g.lg.Infof("COMMAND: %s", msg)
	g.reply(msg)
}

func (g *Game) reply(msg string) {
	g.replies = append(g.replies, msg)
	if len(g.replies) > maxReplies {
		g.replies = g.replies[len(g.replies)-maxReplies:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})
	sn := g.sim.Snapshot()

	state := "RUNNING"
	if g.paused {
		state = "PAUSED"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s  %s  +%s/tick  %s  FPS: %s",
		sn.Code, sn.Name, sn.Now.Format("2006-01-02 15:04"), g.step, state,
		strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64)), 10, 8)

	g.drawGates(screen, sn)
	g.drawRunways(screen, sn)
	g.drawFlights(screen, sn)
	g.drawEvents(screen, sn)
	g.drawUI(screen)
}

func (g *Game) drawGates(screen *ebiten.Image, sn simulation.Snapshot) {
	var lines []string
	var colors []color.Color
	for _, t := range sn.Terminals {
		lines = append(lines, "Terminal "+string(t.ID))
		colors = append(colors, nil)
		for _, gate := range t.Gates {
			line := fmt.Sprintf("%-4s %s", gate.ID, gate.Status)
			if gate.Flight != "" {
				line += " " + string(gate.Flight)
			}
			lines = append(lines, line)
			colors = append(colors, gateColor(gate.Status))
		}
	}
	g.gates.Draw(screen, lines, colors)
}

func (g *Game) drawRunways(screen *ebiten.Image, sn simulation.Snapshot) {
	var lines []string
	var colors []color.Color
	for _, r := range sn.Runways {
		line := fmt.Sprintf("%-8s %.0fm %s", r.ID, r.Length, r.Status)
		if r.Flight != "" {
			line += " " + string(r.Flight)
		}
		lines = append(lines, line)
		colors = append(colors, runwayColor(r.Status))
	}
	g.runways.Draw(screen, lines, colors)
}

func (g *Game) drawFlights(screen *ebiten.Image, sn simulation.Snapshot) {
	var lines []string
	var colors []color.Color
	for _, f := range sn.Flights {
		line := fmt.Sprintf("%-8s %-4s %s-%s  %-9s %s",
			f.ID, f.Destination,
			f.ScheduledDeparture.Format("15:04"), f.ScheduledArrival.Format("15:04"),
			f.Status, f.Load())
		if f.Gate != "" {
			line += "  gate " + string(f.Gate)
		}
		if f.Runway != "" {
			line += "  rwy " + string(f.Runway)
		}
		lines = append(lines, line)
		colors = append(colors, flightColor(f.Status))
	}
	g.flights.Draw(screen, lines, colors)
}

func (g *Game) drawEvents(screen *ebiten.Image, sn simulation.Snapshot) {
	// newest first
	var lines []string
	var colors []color.Color
	for i := len(sn.Events) - 1; i >= 0; i-- {
		e := sn.Events[i]
		lines = append(lines, fmt.Sprintf("%s %s: %s", e.Timestamp.Format("15:04"), e.Flight, e.Message))
		if e.IsUrgent {
			colors = append(colors, colorBusy)
		} else {
			colors = append(colors, nil)
		}
	}
	g.events.Draw(screen, lines, colors)
}

func (g *Game) drawUI(screen *ebiten.Image) {
	g.commandInput.Draw(screen)
	for i, r := range g.replies {
		ebitenutil.DebugPrintAt(screen, r, g.width/2+20, g.height-48-(len(g.replies)-1-i)*ui.LineHeight)
	}
	ebitenutil.DebugPrintAt(screen,
		"Enter: command  Space: pause  MAINT|OPEN|CLOSE|RELEASE <rwy>  CANCEL|GATE <flight>  SPEED <min>",
		10, g.height-84)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func gateColor(s airfield.GateStatus) color.Color {
	switch s {
	case airfield.GATE_FREE:
		return colorFree
	case airfield.GATE_MAINTENANCE:
		return colorMaintenance
	}
	return colorBusy
}

func runwayColor(s airfield.RunwayStatus) color.Color {
	switch s {
	case airfield.RUNWAY_FREE:
		return colorFree
	case airfield.RUNWAY_MAINTENANCE, airfield.RUNWAY_CLOSED:
		return colorMaintenance
	}
	return colorBusy
}

func flightColor(s flight.Status) color.Color {
	switch s {
	case flight.BOARDING:
		return colorBoarding
	case flight.DELAYED:
		return colorMaintenance
	case flight.CANCELLED:
		return colorBusy
	case flight.ARRIVED:
		return colorDone
	}
	return colorFree
}

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(2)
	}
	lg, err := logging.New("client", cfg.LogLevel, cfg.LogDir, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Airport Simulator")
	ebiten.SetVsyncEnabled(true)

	game, err := NewGame(cfg, lg, screenWidth, screenHeight)
	if err != nil {
		lg.Fatal(err)
	}
	if err := ebiten.RunGame(game); err != nil {
		lg.Fatal(err)
	}
}
