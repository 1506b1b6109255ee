// Package passenger generates random passengers for boarding flights.
package passenger

import (
	"fmt"

	"airport-simulator/internal/game/flight"
	"airport-simulator/internal/rand"

	"github.com/google/uuid"
)

var (
	firstNames = []string{"Ivan", "Alexey", "Ekaterina", "Maria", "Dmitry"}
	lastNames  = []string{"Ivanov", "Petrov", "Sidorov", "Smirnova", "Kuznetsova"}
	classes    = []string{"Economy", "Business", "First"}
)

type Generator struct {
	r *rand.Rand
}

func NewGenerator(r *rand.Rand) *Generator {
	return &Generator{r: r}
}

func (g *Generator) GeneratePassenger() flight.Passenger {
	return flight.Passenger{
		Name:         rand.SampleSlice(g.r, firstNames) + " " + rand.SampleSlice(g.r, lastNames),
		Passport:     fmt.Sprintf("%d %d", g.r.IntRange(1000, 9999), g.r.IntRange(100000, 999999)),
		Class:        rand.SampleSlice(g.r, classes),
		BoardingPass: g.boardingPass(),
	}
}

// boardingPass derives a version 4 UUID from the seeded source so that
// runs with the same seed issue the same passes.
func (g *Generator) boardingPass() string {
	var b [16]byte
	for i := 0; i < len(b); i += 4 {
		v := g.r.Uint32()
		b[i], b[i+1], b[i+2], b[i+3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b).String()
}

// BoardingCount returns between half and all of capacity, inclusive.
func (g *Generator) BoardingCount(capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return g.r.IntRange(capacity/2, capacity)
}
