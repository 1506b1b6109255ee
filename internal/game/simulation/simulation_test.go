package simulation

import (
	"bytes"
	"context"
	"testing"
	"time"

	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/airport"
	"airport-simulator/internal/game/flight"
	"airport-simulator/internal/game/passenger"
	"airport-simulator/internal/rand"
	"airport-simulator/pkg/types"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fixedRandom always rolls the same numbers and counts the rolls.
type fixedRandom struct {
	roll   float32
	minute int
	rolls  int
}

func (r *fixedRandom) Float32() float32 {
	r.rolls++
	return r.roll
}

func (r *fixedRandom) IntRange(lo, hi int) int {
	if r.minute < lo {
		return lo
	}
	if r.minute > hi {
		return hi
	}
	return r.minute
}

func newTestAirport(t *testing.T, gates []types.GateID, runways []types.RunwayID) *airport.Airport {
	t.Helper()
	ap := airport.NewAirport("Test", "TST")
	term := airfield.NewTerminal("A")
	for _, id := range gates {
		term.AddGate(airfield.NewGate(id))
	}
	require.NoError(t, ap.AddTerminal(term))
	for _, id := range runways {
		require.NoError(t, ap.AddRunway(airfield.NewRunway(id, 3000)))
	}
	return ap
}

func schedule(t *testing.T, s *Simulation, id types.FlightID, departure time.Time, flightTime time.Duration, capacity int) *flight.Flight {
	t.Helper()
	f, err := flight.NewFlight(id, "Test Air", flight.AIRBUS_A320, "TST", "XXX",
		departure, departure.Add(flightTime), capacity)
	require.NoError(t, err)
	require.NoError(t, s.ScheduleFlight(f))
	return f
}

func TestRunwayContentionFirstRegisteredWins(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap)

	first := schedule(t, s, "F1", t0, time.Minute, 10)
	second := schedule(t, s, "F2", t0, time.Hour, 10)
	first.Status = flight.BOARDING
	second.Status = flight.BOARDING

	s.Tick(t0)
	assert.Equal(t, flight.DEPARTED, first.Status)
	assert.EqualValues(t, "R1", first.Runway)
	assert.Equal(t, flight.BOARDING, second.Status)
	assert.Empty(t, second.Runway)
	require.NoError(t, s.CheckInvariants())

	// first arrives and frees the runway before second is evaluated
	s.Tick(t0.Add(time.Minute))
	assert.Equal(t, flight.ARRIVED, first.Status)
	assert.Empty(t, first.Runway)
	assert.Equal(t, flight.DEPARTED, second.Status)
	assert.EqualValues(t, "R1", second.Runway)
	require.NoError(t, s.CheckInvariants())

	sn := s.Snapshot()
	assert.Equal(t, 2, sn.Stats.Departures)
	assert.Equal(t, 1, sn.Stats.RunwayWaits)
}

func TestRunwayContentionManualRelease(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap)

	first := schedule(t, s, "F1", t0, time.Hour, 10)
	second := schedule(t, s, "F2", t0, time.Hour, 10)
	first.Status = flight.BOARDING
	second.Status = flight.BOARDING

	s.Tick(t0)
	s.Tick(t0.Add(time.Minute))
	assert.Equal(t, flight.BOARDING, second.Status, "runway still held")

	require.NoError(t, s.ReleaseRunway("R1"))
	assert.Equal(t, flight.DEPARTED, first.Status)
	assert.Empty(t, first.Runway)

	s.Tick(t0.Add(2 * time.Minute))
	assert.Equal(t, flight.DEPARTED, second.Status)
	assert.EqualValues(t, "R1", second.Runway)
	require.NoError(t, s.CheckInvariants())

	assert.ErrorIs(t, s.ReleaseRunway("R9"), airport.ErrUnknownRunway)
}

func TestBoardingFillsUpToCapacity(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap, WithPassengerSource(passenger.NewGenerator(rand.New(7))))
	f := schedule(t, s, "F1", t0.Add(10*time.Minute), time.Hour, 180)

	s.Step(t0)
	require.Equal(t, flight.BOARDING, f.Status)
	assert.GreaterOrEqual(t, f.PassengerCount(), 90)
	assert.LessOrEqual(t, f.PassengerCount(), 180)
	assert.Equal(t, f.PassengerCount(), ap.PassengerCount())

	// a second boarding pass only tops the flight up
	s.BoardPassengers()
	assert.Equal(t, 180, f.PassengerCount())

	err := f.AddPassenger(flight.Passenger{Name: "Late", Passport: "0000 000000"})
	assert.ErrorIs(t, err, flight.ErrCapacityExceeded)
	assert.Equal(t, 180, f.PassengerCount())
}

func TestBoardingWindowOpensOnTime(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap)
	f := schedule(t, s, "F1", t0.Add(35*time.Minute), time.Hour, 10)

	s.Tick(t0.Add(-6 * time.Minute))
	assert.Equal(t, flight.SCHEDULED, f.Status)
	s.Tick(t0.Add(-5 * time.Minute))
	assert.Equal(t, flight.BOARDING, f.Status)
}

func TestBoardingOnFirstTickInsideWindow(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap)
	f := schedule(t, s, "F1", t0.Add(35*time.Minute), time.Hour, 10)

	s.Tick(t0)
	assert.Equal(t, flight.BOARDING, f.Status)
}

func TestOneTransitionPerTick(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap)
	// boarding eligible and departure due at the same instant
	f := schedule(t, s, "F1", t0, time.Hour, 10)

	s.Tick(t0)
	assert.Equal(t, flight.BOARDING, f.Status)
	s.Tick(t0)
	assert.Equal(t, flight.DEPARTED, f.Status)
}

func TestMaintenanceRunwaySkipped(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1", "R2"})
	s := NewSimulation(ap)
	require.NoError(t, s.SetRunwayMaintenance("R1", true))

	f1 := schedule(t, s, "F1", t0, time.Hour, 10)
	f2 := schedule(t, s, "F2", t0, time.Hour, 10)
	f1.Status = flight.BOARDING
	f2.Status = flight.BOARDING

	s.Tick(t0)
	assert.EqualValues(t, "R2", f1.Runway)
	assert.Equal(t, flight.BOARDING, f2.Status, "R1 is under maintenance")

	require.NoError(t, s.SetRunwayMaintenance("R1", false))
	s.Tick(t0.Add(time.Minute))
	assert.EqualValues(t, "R1", f2.Runway)
	require.NoError(t, s.CheckInvariants())

	assert.ErrorIs(t, s.SetRunwayMaintenance("R1", true), airfield.ErrResourceBusy)
}

func TestCloseAndOpenRunway(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap)
	require.NoError(t, s.CloseRunway("R1"))

	f := schedule(t, s, "F1", t0, time.Hour, 10)
	f.Status = flight.BOARDING
	s.Tick(t0)
	assert.Equal(t, flight.BOARDING, f.Status)

	require.NoError(t, s.OpenRunway("R1"))
	assert.Error(t, s.OpenRunway("R1"))
	s.Tick(t0.Add(time.Minute))
	assert.Equal(t, flight.DEPARTED, f.Status)
}

func TestDefaultRulesNeverDelay(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	rng := &fixedRandom{roll: 0, minute: 30}
	s := NewSimulation(ap, WithRandom(rng))
	f := schedule(t, s, "F1", t0.Add(2*time.Hour), time.Hour, 10)

	for now := t0; now.Before(f.ScheduledDeparture); now = now.Add(time.Minute) {
		s.Tick(now)
		require.NotEqual(t, flight.DELAYED, f.Status, "at %s", now)
	}
	assert.Equal(t, flight.BOARDING, f.Status)
	assert.Zero(t, rng.rolls)
}

func TestDelayShiftsAndBoardsLater(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	rules := DefaultRules()
	rules.DelayLead = 60 * time.Minute
	rules.DelayProbability = 0.5
	rng := &fixedRandom{roll: 0.1, minute: 45}
	s := NewSimulation(ap, WithRules(rules), WithRandom(rng))
	f := schedule(t, s, "F1", t0.Add(50*time.Minute), time.Hour, 10)

	// outside the delay window: no roll
	s.Tick(t0.Add(-20 * time.Minute))
	assert.Equal(t, flight.SCHEDULED, f.Status)
	assert.Zero(t, rng.rolls)

	s.Tick(t0)
	require.Equal(t, flight.DELAYED, f.Status)
	assert.Equal(t, t0.Add(95*time.Minute), f.ScheduledDeparture)
	assert.Equal(t, t0.Add(155*time.Minute), f.ScheduledArrival)

	// delayed flights are never rolled again
	s.Tick(t0.Add(time.Minute))
	assert.Equal(t, 1, rng.rolls)
	assert.Equal(t, t0.Add(95*time.Minute), f.ScheduledDeparture)

	s.Tick(t0.Add(54 * time.Minute))
	assert.Equal(t, flight.DELAYED, f.Status)
	s.Tick(t0.Add(55 * time.Minute))
	assert.Equal(t, flight.BOARDING, f.Status)

	s.Tick(t0.Add(95 * time.Minute))
	assert.Equal(t, flight.DEPARTED, f.Status)

	sn := s.Snapshot()
	assert.Equal(t, 1, sn.Stats.Delays)
	require.NotEmpty(t, sn.Events)
	assert.True(t, sn.Events[0].IsUrgent)
	assert.Equal(t, "delayed by 45 minutes", sn.Events[0].Message)
}

func TestFailedRollKeepsSchedule(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	rules := DefaultRules()
	rules.DelayLead = 60 * time.Minute
	rng := &fixedRandom{roll: 0.9, minute: 45}
	s := NewSimulation(ap, WithRules(rules), WithRandom(rng))
	f := schedule(t, s, "F1", t0.Add(50*time.Minute), time.Hour, 10)

	s.Tick(t0)
	assert.Equal(t, flight.SCHEDULED, f.Status)
	assert.Equal(t, 1, rng.rolls)
	assert.Equal(t, t0.Add(50*time.Minute), f.ScheduledDeparture)
}

func TestCancelFlightReleasesBindings(t *testing.T) {
	ap := newTestAirport(t, []types.GateID{"A1"}, []types.RunwayID{"R1"})
	s := NewSimulation(ap)
	f := schedule(t, s, "F1", t0, time.Hour, 10)

	gate, err := s.AssignGate("F1")
	require.NoError(t, err)
	assert.EqualValues(t, "A1", gate)
	_, err = s.AssignGate("F1")
	assert.Error(t, err)

	s.Tick(t0)
	s.Tick(t0)
	require.Equal(t, flight.DEPARTED, f.Status)

	require.NoError(t, s.CancelFlight("F1"))
	assert.Equal(t, flight.CANCELLED, f.Status)
	assert.Empty(t, f.Gate)
	assert.Empty(t, f.Runway)
	g, err := ap.Gate("A1")
	require.NoError(t, err)
	assert.True(t, g.Free())
	r, err := ap.Runway("R1")
	require.NoError(t, err)
	assert.True(t, r.Free())
	require.NoError(t, s.CheckInvariants())

	assert.ErrorIs(t, s.CancelFlight("F1"), flight.ErrIllegalTransition)
	assert.ErrorIs(t, s.CancelFlight("F9"), airport.ErrUnknownFlight)

	// a cancelled flight is never evaluated again
	s.Tick(t0.Add(2 * time.Hour))
	assert.Equal(t, flight.CANCELLED, f.Status)
}

func TestGateMaintenanceAndRelease(t *testing.T) {
	ap := newTestAirport(t, []types.GateID{"A1", "A2"}, nil)
	s := NewSimulation(ap)
	schedule(t, s, "F1", t0, time.Hour, 10)
	schedule(t, s, "F2", t0, time.Hour, 10)

	require.NoError(t, s.SetGateMaintenance("A1", true))
	gate, err := s.AssignGate("F1")
	require.NoError(t, err)
	assert.EqualValues(t, "A2", gate)

	_, err = s.AssignGate("F2")
	assert.Error(t, err)

	require.NoError(t, s.ReleaseGate("A2"))
	gate, err = s.AssignGate("F2")
	require.NoError(t, err)
	assert.EqualValues(t, "A2", gate)

	assert.ErrorIs(t, s.SetGateMaintenance("A2", true), airfield.ErrResourceBusy)
	assert.ErrorIs(t, s.ReleaseGate("Z1"), airport.ErrUnknownGate)
	require.NoError(t, s.CheckInvariants())
}

func TestSampleRunsToCompletion(t *testing.T) {
	ap, err := airport.Sample(t0)
	require.NoError(t, err)
	s := NewSimulation(ap)

	now := t0
	for i := 0; i < 90; i++ {
		s.Step(now)
		require.NoError(t, s.CheckInvariants(), "step %d", i)
		for _, f := range ap.Flights() {
			require.LessOrEqual(t, f.PassengerCount(), f.Capacity)
		}
		now = now.Add(10 * time.Minute)
	}

	sn := s.Snapshot()
	assert.Equal(t, map[flight.Status]int{flight.ARRIVED: 5}, sn.CountByStatus())
	assert.Equal(t, 5, sn.Stats.Departures)
	assert.Positive(t, sn.Stats.RunwayWaits, "DL 987 waits for a runway")
	for _, r := range sn.Runways {
		assert.Equal(t, airfield.RUNWAY_FREE, r.Status)
	}
	for _, term := range sn.Terminals {
		for _, g := range term.Gates {
			assert.Equal(t, airfield.GATE_FREE, g.Status)
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() Snapshot {
		ap, err := airport.Sample(t0)
		require.NoError(t, err)
		s := NewSimulation(ap,
			WithRandom(rand.New(42)),
			WithPassengerSource(passenger.NewGenerator(rand.New(43))))
		for i := 0; i < 30; i++ {
			s.Step(t0.Add(time.Duration(i) * 10 * time.Minute))
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	assert.Equal(t, a.Flights, b.Flights)
	assert.Equal(t, a.Stats, b.Stats)
	assert.Equal(t, a.PassengerCount, b.PassengerCount)
}

func TestSnapshotIsACopy(t *testing.T) {
	ap, err := airport.Sample(t0)
	require.NoError(t, err)
	s := NewSimulation(ap)
	s.Tick(t0)

	sn := s.Snapshot()
	f, ok := sn.Flight("SU 123")
	require.True(t, ok)
	assert.Equal(t, flight.BOARDING, f.Status)
	f.Status = flight.CANCELLED
	sn.Runways[0].Status = airfield.RUNWAY_CLOSED

	live, err := ap.Flight("SU 123")
	require.NoError(t, err)
	assert.Equal(t, flight.BOARDING, live.Status)
	assert.Equal(t, airfield.RUNWAY_FREE, ap.Runways()[0].Status)

	_, ok = sn.Flight("XX 1")
	assert.False(t, ok)

	up := sn.Upcoming(t0.Add(time.Minute), 2)
	require.Len(t, up, 2)
	assert.EqualValues(t, "SU 456", up[0].ID)
	assert.EqualValues(t, "U6 789", up[1].ID)
}

func TestSnapshotKeepsTimeLocations(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	start := time.Date(2024, 5, 1, 15, 0, 0, 0, msk)
	ap, err := airport.Sample(start)
	require.NoError(t, err)
	s := NewSimulation(ap)
	s.Step(start)
	s.Step(start.Add(10 * time.Minute))

	sn := s.Snapshot()
	assert.Same(t, msk, sn.Now.Location())
	require.Len(t, sn.Flights, len(ap.Flights()))
	for i, live := range ap.Flights() {
		c := sn.Flights[i]
		assert.Same(t, live.ScheduledDeparture.Location(), c.ScheduledDeparture.Location(), live.ID)
		assert.Same(t, live.ScheduledArrival.Location(), c.ScheduledArrival.Location(), live.ID)
		assert.Equal(t, live.ScheduledDeparture.Format("15:04 MST"), c.ScheduledDeparture.Format("15:04 MST"))
	}
	su123, ok := sn.Flight("SU 123")
	require.True(t, ok)
	assert.Equal(t, "15:10 MSK", su123.ActualDeparture.Format("15:04 MST"))

	require.NotEmpty(t, sn.Events)
	for _, e := range sn.Events {
		assert.Same(t, msk, e.Timestamp.Location())
	}

	// times are values; the flights themselves are still copies
	su123.ScheduledDeparture = su123.ScheduledDeparture.Add(time.Hour)
	live, err := ap.Flight("SU 123")
	require.NoError(t, err)
	assert.Equal(t, start, live.ScheduledDeparture)
}

func TestEventLogIsBounded(t *testing.T) {
	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap, WithEventLogSize(2))
	schedule(t, s, "F1", t0, time.Minute, 10)

	s.Tick(t0)                  // boarding
	s.Tick(t0)                  // departed
	s.Tick(t0.Add(time.Minute)) // arrived

	sn := s.Snapshot()
	require.Len(t, sn.Events, 2)
	assert.Equal(t, "departed from runway R1", sn.Events[0].Message)
	assert.Equal(t, "arrived at XXX", sn.Events[1].Message)
}

func TestLogLines(t *testing.T) {
	var buf bytes.Buffer
	lg := log.New("test")
	lg.SetOutput(&buf)
	lg.SetLevel(log.DEBUG)

	ap := newTestAirport(t, nil, []types.RunwayID{"R1"})
	s := NewSimulation(ap, WithLogger(lg))
	f1 := schedule(t, s, "F1", t0, time.Hour, 10)
	f2 := schedule(t, s, "F2", t0, time.Hour, 10)
	f1.Status = flight.BOARDING
	f2.Status = flight.BOARDING
	s.Tick(t0)

	out := buf.String()
	assert.Contains(t, out, "DEPARTED: Flight F1 from runway R1")
	assert.Contains(t, out, "HOLD:")
}

func TestWorldStepsEveryAirport(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 3; i++ {
		ap, err := airport.Sample(t0)
		require.NoError(t, err)
		w.Add(NewSimulation(ap, WithRandom(rand.New(int64(i)))))
	}
	require.Len(t, w.Simulations(), 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Step(context.Background(), t0.Add(time.Duration(i)*10*time.Minute)))
	}
	for _, sn := range w.Snapshots() {
		assert.Equal(t, 5, sn.Stats.Ticks)
		assert.Equal(t, t0.Add(40*time.Minute), sn.Now)
	}
}

func TestWorldStepHonoursContext(t *testing.T) {
	ap, err := airport.Sample(t0)
	require.NoError(t, err)
	w := NewWorld(NewSimulation(ap))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Step(ctx, t0), context.Canceled)
	assert.Zero(t, w.Snapshots()[0].Stats.Ticks)
}

func TestWorldReportsInvariantFailure(t *testing.T) {
	ap, err := airport.Sample(t0)
	require.NoError(t, err)
	g, err := ap.Gate("B1")
	require.NoError(t, err)
	require.NoError(t, g.Occupy("NOBODY"))

	w := NewWorld(NewSimulation(ap))
	err = w.Step(context.Background(), t0)
	assert.ErrorIs(t, err, airport.ErrInvariant)
}
