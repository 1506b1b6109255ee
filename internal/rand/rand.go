// Package rand is a small seeded random source. Two sources built with the
// same seed produce the same sequence, which keeps simulation runs
// replayable.
package rand

import (
	"github.com/MichaelTJones/pcg"
)

// stream selects the PCG output sequence; every Rand uses the same one so
// the seed alone decides the run.
const stream uint64 = 1442695040888963407

type Rand struct {
	src *pcg.PCG32
}

func New(seed int64) *Rand {
	r := &Rand{src: pcg.NewPCG32()}
	r.Seed(seed)
	return r
}

// Seed restarts the sequence.
func (r *Rand) Seed(seed int64) {
	r.src.Seed(uint64(seed), stream)
}

func (r *Rand) Uint32() uint32 {
	return r.src.Random()
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("rand: Intn called with non-positive n")
	}
	return int(r.src.Bounded(uint32(n)))
}

// IntRange returns a value in [lo, hi], both ends included.
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Float32 returns a value in [0, 1).
func (r *Rand) Float32() float32 {
	return unitFloat32(r.Uint32())
}

// unitFloat32 keeps the top 24 bits, which a float32 mantissa holds
// exactly, so the result never rounds up to 1.
func unitFloat32(u uint32) float32 {
	return float32(u>>8) / (1 << 24)
}

// SampleSlice uniformly randomly samples an element of a non-empty slice.
func SampleSlice[T any](r *Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}
