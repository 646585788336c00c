package moon

import (
	"math"
	"time"
)

type Phase int

const (
	PhaseNew Phase = iota
	PhaseWaxingCrescent
	PhaseFirstQuarter
	PhaseWaxingGibbous
	PhaseFull
	PhaseWaningGibbous
	PhaseLastQuarter
	PhaseWaningCrescent
)

var phaseNames = [...]string{
	"new",
	"waxing-crescent",
	"first-quarter",
	"waxing-gibbous",
	"full",
	"waning-gibbous",
	"last-quarter",
	"waning-crescent",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Snapshot is the oracle's answer for a single instant.
type Snapshot struct {
	Phase                Phase `json:"phase"`
	InModificationWindow bool  `json:"in_modification_window"`
}

// Oracle reports the lunar phase for a given instant. Callers must not cache
// a Snapshot across phase boundaries; re-query instead.
type Oracle interface {
	At(t time.Time) Snapshot
}

const synodicMonthDays = 29.530588853

// Reference new moon: 2000-01-06 18:14 UTC.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

type oracle struct{}

func NewOracle() Oracle {
	return oracle{}
}

// At divides the synodic month into eight equal segments starting at the new
// moon. The modification window covers full through last-quarter, roughly
// eleven of the 29.53 days.
func (oracle) At(t time.Time) Snapshot {
	days := t.Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(days, synodicMonthDays)
	if age < 0 {
		age += synodicMonthDays
	}
	p := Phase(int(age / synodicMonthDays * 8))
	return Snapshot{
		Phase:                p,
		InModificationWindow: p == PhaseFull || p == PhaseWaningGibbous || p == PhaseLastQuarter,
	}
}

// Fixed is an Oracle that always answers with the same snapshot.
type Fixed struct {
	Snapshot Snapshot
}

func (f Fixed) At(time.Time) Snapshot {
	return f.Snapshot
}
