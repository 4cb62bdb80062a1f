package model

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	r := IdealRange{Min: 20, Max: 40}

	cases := []struct {
		name  string
		value float64
		want  Classification
	}{
		{"below", 10, ClassLow},
		{"atMin", 20, ClassOptimal},
		{"inside", 30, ClassOptimal},
		{"atMax", 40, ClassOptimal},
		{"above", 41, ClassHigh},
		{"negative", -5, ClassLow},
		{"nan", math.NaN(), ClassLow},
		{"posInf", math.Inf(1), ClassHigh},
		{"negInf", math.Inf(-1), ClassLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Classify(tc.value); got != tc.want {
				t.Fatalf("Classify(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestClassifyNaNIsStable(t *testing.T) {
	r := IdealRange{Min: 0, Max: 100}
	for i := 0; i < 10; i++ {
		if got := r.Classify(math.NaN()); got != ClassLow {
			t.Fatalf("NaN classification changed to %q on call %d", got, i)
		}
	}
}

func TestScaleDoesNotMutate(t *testing.T) {
	base := IdealRange{Min: 1000, Max: 5000}
	scaled := base.Scale(0.2)

	if scaled.Min != 200 || scaled.Max != 1000 {
		t.Fatalf("Scale(0.2) = %+v", scaled)
	}
	if base.Min != 1000 || base.Max != 5000 {
		t.Fatalf("base mutated: %+v", base)
	}
	// scaling twice from the same base must give the same result
	if again := base.Scale(0.2); again != scaled {
		t.Fatalf("repeated scale drifted: %+v vs %+v", again, scaled)
	}
}

func TestContains(t *testing.T) {
	r := IdealRange{Min: 15, Max: 30}
	if !r.Contains(25) {
		t.Error("25 should be inside 15-30")
	}
	if r.Contains(31) {
		t.Error("31 should be outside 15-30")
	}
	if r.Contains(math.NaN()) {
		t.Error("NaN must never be inside a range")
	}
}
