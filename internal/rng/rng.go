// Package rng provides the deterministic random streams used while styling a
// QR code. Every value is a pure function of (seed, purpose, coordinates), so
// re-rendering the same configuration yields the same pixels.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
)

// Purposes used by the renderer. Each one is an independent stream.
const (
	Border        = "border"
	BorderOpacity = "border-op"
	Marker        = "marker"
	Corner        = "corner"
	Crystalize    = "crystalize"
)

// Float returns a value in [0, 1) for the given key.
func Float(seed int64, purpose string, coords ...int) float64 {
	return float64(Uint64(seed, purpose, coords...)>>11) / (1 << 53)
}

// Uint64 hashes the key into a PCG seed and returns the first output.
func Uint64(seed int64, purpose string, coords ...int) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 32+len(purpose)+8*len(coords))
	buf = strconv.AppendInt(buf, seed, 10)
	buf = append(buf, ':')
	buf = append(buf, purpose...)
	for _, c := range coords {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(c), 10)
	}
	_, _ = h.Write(buf)
	sum := h.Sum64()
	pcg := rand.NewPCG(sum, sum^0x9e3779b97f4a7c15)
	return pcg.Uint64()
}

// Stream returns a sequential generator for a purpose. It is used where the
// caller draws an unbounded number of values in a fixed order.
func Stream(seed int64, purpose string) *rand.Rand {
	a := Uint64(seed, purpose, 0)
	b := Uint64(seed, purpose, 1)
	return rand.New(rand.NewPCG(a, b))
}
