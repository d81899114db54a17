package rng

import "testing"

func TestFloatDeterministic(t *testing.T) {
	a := Float(42, Border, 3, -1)
	b := Float(42, Border, 3, -1)
	if a != b {
		t.Fatalf("same key produced %v and %v", a, b)
	}
}

func TestFloatRange(t *testing.T) {
	for x := -20; x < 20; x++ {
		for y := -20; y < 20; y++ {
			v := Float(7, Corner, x, y)
			if v < 0 || v >= 1 {
				t.Fatalf("value %v out of [0,1) at (%d,%d)", v, x, y)
			}
		}
	}
}

func TestPurposesIndependent(t *testing.T) {
	same := 0
	for i := 0; i < 200; i++ {
		if Float(1, Border, i) == Float(1, Marker, i) {
			same++
		}
	}
	if same > 0 {
		t.Fatalf("border and marker streams collided %d times", same)
	}
}

func TestSeedChangesStream(t *testing.T) {
	diff := 0
	for i := 0; i < 100; i++ {
		if (Float(42, Border, i, 0) < 0.5) != (Float(43, Border, i, 0) < 0.5) {
			diff++
		}
	}
	if diff == 0 {
		t.Fatalf("seeds 42 and 43 produced identical coin flips")
	}
}

func TestFloatMean(t *testing.T) {
	sum := 0.0
	const n = 5000
	for i := 0; i < n; i++ {
		sum += Float(9, Crystalize, i)
	}
	mean := sum / n
	if mean < 0.45 || mean > 0.55 {
		t.Fatalf("mean %v too far from 0.5", mean)
	}
}

func TestStreamReproducible(t *testing.T) {
	a := Stream(5, Crystalize)
	b := Stream(5, Crystalize)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}
