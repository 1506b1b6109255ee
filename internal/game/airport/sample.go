package airport

import (
	"fmt"
	"time"

	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/allocation"
	"airport-simulator/internal/game/flight"
	"airport-simulator/pkg/types"
)

type sampleFlight struct {
	id          types.FlightID
	airline     string
	aircraft    flight.AircraftType
	destination string
	departIn    time.Duration
	duration    time.Duration
	capacity    int
}

type sampleRunway struct {
	id     types.RunwayID
	length float64
}

type sampleTerminal struct {
	id    types.TerminalID
	gates int
}

type layout struct {
	name, code string
	terminals  []sampleTerminal
	runways    []sampleRunway
	flights    []sampleFlight
}

var sheremetyevo = layout{
	name:      "Sheremetyevo",
	code:      "SVO",
	terminals: []sampleTerminal{{"A", 5}, {"B", 7}},
	runways:   []sampleRunway{{"06L/24R", 3700}, {"06R/24L", 3550}, {"07L/25R", 3200}},
	flights: []sampleFlight{
		{"SU 123", "Aeroflot", flight.AIRBUS_A320, "LED", 0, 90 * time.Minute, 180},
		{"SU 456", "Aeroflot", flight.BOEING_777, "JFK", 30 * time.Minute, 600 * time.Minute, 350},
		{"U6 789", "Ural Airlines", flight.BOEING_737, "KZN", 60 * time.Minute, 120 * time.Minute, 160},
		{"TK 321", "Turkish Airlines", flight.AIRBUS_A380, "IST", 90 * time.Minute, 180 * time.Minute, 500},
		{"DL 987", "Delta Airlines", flight.BOEING_777, "ATL", 120 * time.Minute, 720 * time.Minute, 300},
	},
}

var pulkovo = layout{
	name:      "Pulkovo",
	code:      "LED",
	terminals: []sampleTerminal{{"D", 6}},
	runways:   []sampleRunway{{"10L/28R", 3780}, {"10R/28L", 3397}},
	flights: []sampleFlight{
		{"FV 6011", "Rossiya", flight.AIRBUS_A320, "SVO", 20 * time.Minute, 85 * time.Minute, 158},
		{"SU 31", "Aeroflot", flight.BOEING_737, "SVO", 45 * time.Minute, 90 * time.Minute, 168},
		{"EK 176", "Emirates", flight.BOEING_777, "DXB", 75 * time.Minute, 360 * time.Minute, 354},
		{"S7 1024", "S7 Airlines", flight.AIRBUS_A320, "OVB", 100 * time.Minute, 240 * time.Minute, 176},
	},
}

// Sample builds Sheremetyevo with two terminals, three runways and five
// departures relative to now. Every other flight gets a gate up front.
func Sample(now time.Time) (*Airport, error) {
	return sheremetyevo.build(now)
}

// Samples returns Sheremetyevo and Pulkovo.
func Samples(now time.Time) ([]*Airport, error) {
	var out []*Airport
	for _, l := range []layout{sheremetyevo, pulkovo} {
		ap, err := l.build(now)
		if err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	return out, nil
}

func (l layout) build(now time.Time) (*Airport, error) {
	ap := NewAirport(l.name, l.code)

	for _, st := range l.terminals {
		t := airfield.NewTerminal(st.id)
		for i := 1; i <= st.gates; i++ {
			t.AddGate(airfield.NewGate(types.GateID(fmt.Sprintf("%s%d", st.id, i))))
		}
		if err := ap.AddTerminal(t); err != nil {
			return nil, err
		}
	}
	for _, sr := range l.runways {
		if err := ap.AddRunway(airfield.NewRunway(sr.id, sr.length)); err != nil {
			return nil, err
		}
	}

	alloc := allocation.New(ap)
	for i, sf := range l.flights {
		departure := now.Add(sf.departIn)
		f, err := flight.NewFlight(sf.id, sf.airline, sf.aircraft, l.code, sf.destination,
			departure, departure.Add(sf.duration), sf.capacity)
		if err != nil {
			return nil, err
		}
		if err := ap.ScheduleFlight(f); err != nil {
			return nil, err
		}
		if i%2 == 0 {
			if _, err := alloc.AssignGate(f); err != nil {
				return nil, err
			}
		}
	}
	return ap, nil
}
