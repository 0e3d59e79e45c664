package employee

import (
	"fmt"
	"time"
)

type MinutesFormula string

const (
	// MinutesFormulaLegacy is (endHour - startHour) + (endMinute - startMinute):
	// the hour difference is not multiplied by 60. Stored ledgers were built
	// with it, so it stays the default.
	MinutesFormulaLegacy MinutesFormula = "legacy"
	// MinutesFormulaElapsed is the true number of whole minutes between start and end.
	MinutesFormulaElapsed MinutesFormula = "elapsed"
)

func ParseMinutesFormula(s string) (MinutesFormula, error) {
	switch MinutesFormula(s) {
	case "", MinutesFormulaLegacy:
		return MinutesFormulaLegacy, nil
	case MinutesFormulaElapsed:
		return MinutesFormulaElapsed, nil
	default:
		return "", fmt.Errorf("unknown minutes formula %q", s)
	}
}

func (f MinutesFormula) Compute(start, end time.Time) int {
	if f == MinutesFormulaElapsed {
		return int(end.Sub(start) / time.Minute)
	}
	return (end.Hour() - start.Hour()) + (end.Minute() - start.Minute())
}
