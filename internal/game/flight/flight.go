package flight

import (
	"fmt"
	"time"

	"airport-simulator/pkg/types"
)

type Status int

const (
	SCHEDULED Status = iota
	BOARDING
	DEPARTED
	ARRIVED
	DELAYED
	CANCELLED
)

var StatusStringMap = map[Status]string{
	SCHEDULED: "SCHEDULED",
	BOARDING:  "BOARDING",
	DEPARTED:  "DEPARTED",
	ARRIVED:   "ARRIVED",
	DELAYED:   "DELAYED",
	CANCELLED: "CANCELLED",
}

func (s Status) String() string {
	if str, ok := StatusStringMap[s]; ok {
		return str
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) Terminal() bool {
	return s == ARRIVED || s == CANCELLED
}

// transitions lists every legal move of the lifecycle. CANCELLED is
// reachable from all non-terminal states.
var transitions = map[Status][]Status{
	SCHEDULED: {BOARDING, DELAYED, CANCELLED},
	DELAYED:   {BOARDING, CANCELLED},
	BOARDING:  {DEPARTED, CANCELLED},
	DEPARTED:  {ARRIVED, CANCELLED},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type AircraftType int

const (
	BOEING_737 AircraftType = iota
	AIRBUS_A320
	BOEING_777
	AIRBUS_A380
)

var AircraftStringMap = map[AircraftType]string{
	BOEING_737:  "Boeing 737",
	AIRBUS_A320: "Airbus A320",
	BOEING_777:  "Boeing 777",
	AIRBUS_A380: "Airbus A380",
}

func (a AircraftType) String() string {
	if str, ok := AircraftStringMap[a]; ok {
		return str
	}
	return fmt.Sprintf("AircraftType(%d)", int(a))
}

// MinRunwayLength is the shortest runway, in metres, the type can depart
// from. Only consulted when the allocator checks runway length.
func (a AircraftType) MinRunwayLength() float64 {
	switch a {
	case AIRBUS_A380:
		return 3000
	case BOEING_777:
		return 2800
	default:
		return 2000
	}
}

type Passenger struct {
	Name         string
	Passport     string
	Class        string
	BoardingPass string
}

func (p Passenger) String() string {
	return fmt.Sprintf("%s (%s), class: %s", p.Name, p.Passport, p.Class)
}

type Flight struct {
	ID          types.FlightID
	Airline     string
	Aircraft    AircraftType
	Origin      string
	Destination string

	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
	ActualDeparture    time.Time
	ActualArrival      time.Time

	Capacity   int
	Passengers []Passenger
	Status     Status

	// Bindings are identifiers of resources owned by the airport.
	Gate   types.GateID
	Runway types.RunwayID
}

func NewFlight(id types.FlightID, airline string, aircraft AircraftType, origin, destination string,
	departure, arrival time.Time, capacity int) (*Flight, error) {
	if id == "" {
		return nil, fmt.Errorf("flight id must not be empty")
	}
	if _, ok := AircraftStringMap[aircraft]; !ok {
		return nil, fmt.Errorf("flight %s: unknown aircraft type %d", id, int(aircraft))
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("flight %s: capacity must be positive, got %d", id, capacity)
	}
	if arrival.Before(departure) {
		return nil, fmt.Errorf("flight %s: arrival %s before departure %s", id,
			arrival.Format(time.RFC3339), departure.Format(time.RFC3339))
	}
	return &Flight{
		ID:                 id,
		Airline:            airline,
		Aircraft:           aircraft,
		Origin:             origin,
		Destination:        destination,
		ScheduledDeparture: departure,
		ScheduledArrival:   arrival,
		Capacity:           capacity,
		Status:             SCHEDULED,
	}, nil
}

func (f *Flight) PassengerCount() int {
	return len(f.Passengers)
}

func (f *Flight) Load() string {
	return fmt.Sprintf("%d/%d", len(f.Passengers), f.Capacity)
}

// AddPassenger appends p unless the flight is already full.
func (f *Flight) AddPassenger(p Passenger) error {
	if len(f.Passengers) >= f.Capacity {
		return fmt.Errorf("flight %s at %s: %w", f.ID, f.Load(), ErrCapacityExceeded)
	}
	f.Passengers = append(f.Passengers, p)
	return nil
}

func (f *Flight) transition(to Status) error {
	if !CanTransition(f.Status, to) {
		return fmt.Errorf("flight %s: %s -> %s: %w", f.ID, f.Status, to, ErrIllegalTransition)
	}
	f.Status = to
	return nil
}

// Board opens boarding. DELAYED flights board like SCHEDULED ones, using
// their shifted times.
func (f *Flight) Board() error {
	return f.transition(BOARDING)
}

// Depart records takeoff. The runway must already be bound by the
// allocator.
func (f *Flight) Depart(now time.Time) error {
	if f.Runway == "" {
		return fmt.Errorf("flight %s: departure without a runway: %w", f.ID, ErrIllegalTransition)
	}
	if err := f.transition(DEPARTED); err != nil {
		return err
	}
	f.ActualDeparture = now
	return nil
}

// Arrive marks the flight as landed. Releasing the bound gate and runway is
// the caller's job, since the flight only holds their identifiers.
func (f *Flight) Arrive(now time.Time) error {
	if err := f.transition(ARRIVED); err != nil {
		return err
	}
	f.ActualArrival = now
	return nil
}

// Delay shifts both scheduled times by d and marks the flight DELAYED.
func (f *Flight) Delay(d time.Duration) error {
	if err := f.transition(DELAYED); err != nil {
		return err
	}
	f.ScheduledDeparture = f.ScheduledDeparture.Add(d)
	f.ScheduledArrival = f.ScheduledArrival.Add(d)
	return nil
}

func (f *Flight) Cancel() error {
	return f.transition(CANCELLED)
}

// BoardingEligible reports whether the flight may start boarding at now.
func (f *Flight) BoardingEligible(now time.Time, lead time.Duration) bool {
	if f.Status != SCHEDULED && f.Status != DELAYED {
		return false
	}
	return types.WindowBefore(f.ScheduledDeparture, lead).Contains(now)
}

func (f *Flight) DepartureDue(now time.Time) bool {
	return f.Status == BOARDING && !now.Before(f.ScheduledDeparture)
}

func (f *Flight) ArrivalDue(now time.Time) bool {
	return f.Status == DEPARTED && !now.Before(f.ScheduledArrival)
}

// DelayEligible reports whether the delay roll should be made at now. Only
// flights that were never delayed qualify.
func (f *Flight) DelayEligible(now time.Time, lead time.Duration) bool {
	return f.Status == SCHEDULED && types.WindowBefore(f.ScheduledDeparture, lead).Contains(now)
}

func (f *Flight) String() string {
	return fmt.Sprintf("Flight %s %s (%s)\nFrom: %s to %s\nTime: %s - %s\nStatus: %s, Passengers: %s",
		f.ID, f.Airline, f.Aircraft, f.Origin, f.Destination,
		f.ScheduledDeparture.Format("15:04"), f.ScheduledArrival.Format("15:04"),
		f.Status, f.Load())
}
