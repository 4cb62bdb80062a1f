package reservoir

import (
	"math/rand"
	"testing"
)

func newTestTank(initial float64) *Tank {
	return New(initial, DefaultDecayMin, DefaultDecayMax, rand.New(rand.NewSource(1)))
}

func TestConsumeSaturatesAtZero(t *testing.T) {
	tank := newTestTank(3)
	if got := tank.Consume(10); got != 0 {
		t.Fatalf("level after over-consume = %v, want 0", got)
	}
	// still total: consuming from an empty tank is a no-op
	if got := tank.Consume(5); got != 0 {
		t.Fatalf("level = %v, want 0", got)
	}
}

func TestRefillCapsAtFull(t *testing.T) {
	tank := newTestTank(90)
	old, now := tank.Refill(50)
	if old != 90 || now != 100 {
		t.Fatalf("Refill = (%v, %v), want (90, 100)", old, now)
	}
}

func TestDecayNeverGoesNegative(t *testing.T) {
	tank := newTestTank(1)
	for i := 0; i < 10; i++ {
		if lvl := tank.Decay(); lvl < 0 {
			t.Fatalf("level went negative: %v", lvl)
		}
	}
	if tank.Level() != 0 {
		t.Fatalf("level = %v, want 0 after repeated decay from 1", tank.Level())
	}
}

func TestDecayStaysWithinBounds(t *testing.T) {
	tank := New(100, 0.5, 1.5, rand.New(rand.NewSource(42)))
	before := tank.Level()
	for i := 0; i < 20; i++ {
		after := tank.Decay()
		loss := before - after
		if loss < 0.5-1e-9 || loss > 1.5+1e-9 {
			t.Fatalf("cycle %d: loss %v outside [0.5, 1.5]", i, loss)
		}
		before = after
	}
}

func TestThresholds(t *testing.T) {
	cases := []struct {
		level       float64
		critical    bool
		canIrrigate bool
	}{
		{50, false, true},
		{20, false, true},
		{19.9, true, true},
		{10.5, true, true},
		{10, true, false},
		{8, true, false},
		{0, true, false},
	}
	for _, tc := range cases {
		tank := New(tc.level, 0, 0, rand.New(rand.NewSource(1)))
		if got := tank.IsCritical(); got != tc.critical {
			t.Errorf("level %v: IsCritical = %v, want %v", tc.level, got, tc.critical)
		}
		if got := tank.CanIrrigate(); got != tc.canIrrigate {
			t.Errorf("level %v: CanIrrigate = %v, want %v", tc.level, got, tc.canIrrigate)
		}
	}
}

func TestNewClampsInitialLevel(t *testing.T) {
	if lvl := newTestTank(150).Level(); lvl != 100 {
		t.Errorf("initial 150 clamped to %v, want 100", lvl)
	}
	if lvl := newTestTank(-5).Level(); lvl != 0 {
		t.Errorf("initial -5 clamped to %v, want 0", lvl)
	}
}
