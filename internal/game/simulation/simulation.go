package simulation

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"airport-simulator/internal/game/airport"
	"airport-simulator/internal/game/allocation"
	"airport-simulator/internal/game/flight"
	"airport-simulator/internal/game/passenger"
	"airport-simulator/internal/rand"
	"airport-simulator/pkg/types"

	"github.com/labstack/gommon/log"
)

const (
	defaultSeed            = 1
	defaultMaxEventLogSize = 50
)

// RandomSource drives the delay roll and the delay length.
type RandomSource interface {
	Float32() float32
	IntRange(lo, hi int) int
}

// PassengerSource hands the simulation new passengers while a flight is
// boarding. BoardingCount must return a value in [capacity/2, capacity].
type PassengerSource interface {
	GeneratePassenger() flight.Passenger
	BoardingCount(capacity int) int
}

// Rules are the timing parameters of the flight lifecycle.
type Rules struct {
	// Boarding opens this long before departure.
	BoardingLead time.Duration
	// A delay may be rolled for a scheduled flight this long before
	// departure. Boarding is evaluated first, so with DelayLead <=
	// BoardingLead the delay never fires.
	DelayLead        time.Duration
	DelayProbability float32
	MinDelay         time.Duration
	MaxDelay         time.Duration

	CheckRunwayLength bool
}

func DefaultRules() Rules {
	return Rules{
		BoardingLead:     40 * time.Minute,
		DelayLead:        30 * time.Minute,
		DelayProbability: 0.1,
		MinDelay:         15 * time.Minute,
		MaxDelay:         120 * time.Minute,
	}
}

type Stats struct {
	Ticks       int
	Boardings   int
	Departures  int
	Arrivals    int
	Delays      int
	Cancels     int
	RunwayWaits int
	Boarded     int
}

// Simulation drives one airport. All entry points hold s.mu, so a tick
// always runs to completion before anything else touches the airport.
type Simulation struct {
	mu sync.Mutex

	airport    *airport.Airport
	alloc      *allocation.Allocator
	rules      Rules
	rng        RandomSource
	passengers PassengerSource
	lg         *log.Logger

	now   time.Time
	stats Stats

	eventLog        []Event
	maxEventLogSize int
}

type Option func(*Simulation)

func WithRules(r Rules) Option {
	return func(s *Simulation) { s.rules = r }
}

func WithRandom(r RandomSource) Option {
	return func(s *Simulation) { s.rng = r }
}

func WithPassengerSource(p PassengerSource) Option {
	return func(s *Simulation) { s.passengers = p }
}

func WithLogger(lg *log.Logger) Option {
	return func(s *Simulation) { s.lg = lg }
}

func WithEventLogSize(n int) Option {
	return func(s *Simulation) {
		if n > 0 {
			s.maxEventLogSize = n
		}
	}
}

func NewSimulation(ap *airport.Airport, opts ...Option) *Simulation {
	s := &Simulation{
		airport:         ap,
		rules:           DefaultRules(),
		maxEventLogSize: defaultMaxEventLogSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(defaultSeed)
	}
	if s.passengers == nil {
		s.passengers = passenger.NewGenerator(rand.New(defaultSeed + 1))
	}
	if s.lg == nil {
		s.lg = log.New("sim")
		s.lg.SetOutput(io.Discard)
	}

	var allocOpts []allocation.Option
	if s.rules.CheckRunwayLength {
		allocOpts = append(allocOpts, allocation.WithRunwayLengthCheck())
	}
	s.alloc = allocation.New(ap, allocOpts...)
	return s
}

func (s *Simulation) Code() string {
	return s.airport.Code
}

// Now returns the time of the most recent tick.
func (s *Simulation) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Tick evaluates every flight once, in schedule order. Each flight makes
// at most one transition per tick.
func (s *Simulation) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(now)
}

func (s *Simulation) tickLocked(now time.Time) {
	s.now = now
	s.stats.Ticks++

	for _, f := range s.airport.Flights() {
		switch {
		case f.BoardingEligible(now, s.rules.BoardingLead):
			s.board(f, now)
		case f.DepartureDue(now):
			s.depart(f, now)
		case f.ArrivalDue(now):
			s.arrive(f, now)
		case f.DelayEligible(now, s.rules.DelayLead) && s.rng.Float32() < s.rules.DelayProbability:
			s.delay(f, now)
		}
	}
}

func (s *Simulation) board(f *flight.Flight, now time.Time) {
	if err := f.Board(); err != nil {
		s.lg.Errorf("BOARDING: %v", err)
		return
	}
	s.stats.Boardings++
	s.lg.Infof("BOARDING: Flight %s boarding for %s", f.ID, f.ScheduledDeparture.Format("15:04"))
	s.addEvent(now, f.ID, "boarding started", false)
}

func (s *Simulation) depart(f *flight.Flight, now time.Time) {
	rwy, err := s.alloc.AssignRunway(f)
	if err != nil {
		if errors.Is(err, allocation.ErrResourceUnavailable) {
			// Stays BOARDING and tries again next tick.
			s.stats.RunwayWaits++
			s.lg.Debugf("HOLD: %v", err)
		} else {
			s.lg.Errorf("DEPARTURE: %v", err)
		}
		return
	}
	if err := f.Depart(now); err != nil {
		s.alloc.ReleaseRunway(rwy)
		s.lg.Errorf("DEPARTURE: %v", err)
		return
	}
	s.stats.Departures++
	s.lg.Infof("DEPARTED: Flight %s from runway %s", f.ID, rwy.ID)
	s.addEvent(now, f.ID, fmt.Sprintf("departed from runway %s", rwy.ID), false)
}

func (s *Simulation) arrive(f *flight.Flight, now time.Time) {
	if err := f.Arrive(now); err != nil {
		s.lg.Errorf("ARRIVAL: %v", err)
		return
	}
	s.alloc.ReleaseFlight(f)
	s.stats.Arrivals++
	s.lg.Infof("ARRIVED: Flight %s at %s", f.ID, f.Destination)
	s.addEvent(now, f.ID, "arrived at "+f.Destination, false)
}

func (s *Simulation) delay(f *flight.Flight, now time.Time) {
	minutes := s.rng.IntRange(int(s.rules.MinDelay/time.Minute), int(s.rules.MaxDelay/time.Minute))
	if err := f.Delay(time.Duration(minutes) * time.Minute); err != nil {
		s.lg.Errorf("DELAY: %v", err)
		return
	}
	s.stats.Delays++
	s.lg.Warnf("DELAYED: Flight %s delayed by %d minutes", f.ID, minutes)
	s.addEvent(now, f.ID, fmt.Sprintf("delayed by %d minutes", minutes), true)
}

// BoardPassengers adds passengers from the passenger source to every
// flight that is boarding. It stops filling a flight at its capacity.
func (s *Simulation) BoardPassengers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boardPassengersLocked()
}

func (s *Simulation) boardPassengersLocked() {
	for _, f := range s.airport.Flights() {
		if f.Status != flight.BOARDING {
			continue
		}
		n := s.passengers.BoardingCount(f.Capacity)
		for i := 0; i < n; i++ {
			p := s.passengers.GeneratePassenger()
			if err := f.AddPassenger(p); err != nil {
				s.lg.Debugf("BOARDING: %v", err)
				break
			}
			s.airport.RegisterPassenger(p)
			s.stats.Boarded++
		}
		s.lg.Infof("%d passengers registered on flight %s", f.PassengerCount(), f.ID)
	}
}

// Step is one simulation cycle: a tick followed by passenger boarding.
func (s *Simulation) Step(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(now)
	s.boardPassengersLocked()
}

func (s *Simulation) ScheduleFlight(f *flight.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.airport.ScheduleFlight(f); err != nil {
		return err
	}
	s.lg.Infof("Flight %s added to the schedule", f.ID)
	return nil
}

// AssignGate binds the first free gate to a flight.
func (s *Simulation) AssignGate(id types.FlightID) (types.GateID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.airport.Flight(id)
	if err != nil {
		return "", err
	}
	g, err := s.alloc.AssignGate(f)
	if err != nil {
		s.lg.Warnf("GATE: %v", err)
		return "", err
	}
	s.lg.Infof("GATE: Flight %s assigned gate %s", f.ID, g.ID)
	s.addEvent(s.now, f.ID, "assigned gate "+string(g.ID), false)
	return g.ID, nil
}

func (s *Simulation) ReleaseGate(id types.GateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.airport.Gate(id)
	if err != nil {
		return err
	}
	s.alloc.ReleaseGate(g)
	return nil
}

// ReleaseRunway frees a runway by hand. The flight that held it keeps its
// status but loses the binding.
func (s *Simulation) ReleaseRunway(id types.RunwayID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.airport.Runway(id)
	if err != nil {
		return err
	}
	if holder := r.Flight; holder != "" {
		s.alloc.ReleaseRunway(r)
		s.lg.Infof("RUNWAY: %s released from flight %s", r.ID, holder)
	}
	return nil
}

func (s *Simulation) SetRunwayMaintenance(id types.RunwayID, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.airport.Runway(id)
	if err != nil {
		return err
	}
	if err := r.SetMaintenance(on); err != nil {
		return err
	}
	s.lg.Infof("RUNWAY: %s now %s", r.ID, r.Status)
	return nil
}

func (s *Simulation) CloseRunway(id types.RunwayID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.airport.Runway(id)
	if err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	s.lg.Infof("RUNWAY: %s closed", r.ID)
	return nil
}

func (s *Simulation) OpenRunway(id types.RunwayID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.airport.Runway(id)
	if err != nil {
		return err
	}
	if err := r.Open(); err != nil {
		return err
	}
	s.lg.Infof("RUNWAY: %s open", r.ID)
	return nil
}

func (s *Simulation) SetGateMaintenance(id types.GateID, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.airport.Gate(id)
	if err != nil {
		return err
	}
	if err := g.SetMaintenance(on); err != nil {
		return err
	}
	s.lg.Infof("GATE: %s now %s", g.ID, g.Status)
	return nil
}

// CancelFlight moves a flight to CANCELLED and releases whatever it holds.
func (s *Simulation) CancelFlight(id types.FlightID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.airport.Flight(id)
	if err != nil {
		return err
	}
	if err := f.Cancel(); err != nil {
		return err
	}
	s.alloc.ReleaseFlight(f)
	s.stats.Cancels++
	s.lg.Warnf("CANCELLED: Flight %s", f.ID)
	s.addEvent(s.now, f.ID, "cancelled", true)
	return nil
}

func (s *Simulation) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.airport.CheckInvariants(); err != nil {
		return fmt.Errorf("airport %s: %w", s.airport.Code, err)
	}
	return nil
}
