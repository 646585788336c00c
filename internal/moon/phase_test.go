package moon_test

import (
	"testing"
	"time"

	"github.com/selene-app/selene-api/internal/moon"
)

// Reference new moon used by the oracle.
var newMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

func daysAfter(d float64) time.Time {
	return newMoon.Add(time.Duration(d * 24 * float64(time.Hour)))
}

func TestPhaseProgression(t *testing.T) {
	oracle := moon.NewOracle()

	cases := []struct {
		name string
		at   time.Time
		want moon.Phase
	}{
		{"NewMoonEpoch", newMoon, moon.PhaseNew},
		{"DayOne", daysAfter(1), moon.PhaseNew},
		{"WaxingCrescent", daysAfter(4), moon.PhaseWaxingCrescent},
		{"FirstQuarter", daysAfter(8), moon.PhaseFirstQuarter},
		{"WaxingGibbous", daysAfter(12), moon.PhaseWaxingGibbous},
		{"Full", daysAfter(15), moon.PhaseFull},
		{"WaningGibbous", daysAfter(20), moon.PhaseWaningGibbous},
		{"LastQuarter", daysAfter(23), moon.PhaseLastQuarter},
		{"WaningCrescent", daysAfter(26.5), moon.PhaseWaningCrescent},
		{"WrapsToNextCycle", daysAfter(30), moon.PhaseNew},
		{"BeforeEpoch", daysAfter(-14.5), moon.PhaseFull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := oracle.At(tc.at)
			if got.Phase != tc.want {
				t.Errorf("At(%s).Phase = %s, want %s", tc.at, got.Phase, tc.want)
			}
		})
	}
}

func TestModificationWindow(t *testing.T) {
	oracle := moon.NewOracle()

	open := []moon.Phase{moon.PhaseFull, moon.PhaseWaningGibbous, moon.PhaseLastQuarter}
	for d := 0.5; d < 29.5; d++ {
		snap := oracle.At(daysAfter(d))
		wantOpen := false
		for _, p := range open {
			if snap.Phase == p {
				wantOpen = true
			}
		}
		if snap.InModificationWindow != wantOpen {
			t.Errorf("day %.1f (%s): InModificationWindow = %v, want %v",
				d, snap.Phase, snap.InModificationWindow, wantOpen)
		}
	}
}

func TestAtIsDeterministic(t *testing.T) {
	oracle := moon.NewOracle()
	at := daysAfter(17.2)
	first := oracle.At(at)
	for i := 0; i < 10; i++ {
		if got := oracle.At(at); got != first {
			t.Fatalf("At returned %+v then %+v for the same instant", first, got)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if got := moon.PhaseWaningGibbous.String(); got != "waning-gibbous" {
		t.Errorf("String() = %q, want %q", got, "waning-gibbous")
	}
	if got := moon.Phase(42).String(); got != "unknown" {
		t.Errorf("String() on out-of-range phase = %q, want %q", got, "unknown")
	}
}
