package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Scoring policy errors
var (
	ErrInvalidVolumeUnit    = errors.New("volume unit must be positive")
	ErrInvalidTierBounds    = errors.New("tier bounds must be strictly ascending")
	ErrInvalidScoringWeight = errors.New("scoring weights must be positive")
)

// ScoringPolicy holds the tier bounds and weights used to classify
// transactions and maintain identity scores. Bounds are expressed in
// volume units, so the same policy works at any denomination.
type ScoringPolicy struct {
	VolumeUnit          decimal.Decimal
	MicroMax            decimal.Decimal
	SmallMax            decimal.Decimal
	MediumMax           decimal.Decimal
	LargeMax            decimal.Decimal
	ScorePerTransaction uint64
	ReputationStep      uint64
}

// DefaultScoringPolicy returns the standard tier bounds
// (0.01 / 0.1 / 1 / 10 units) and weights.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		VolumeUnit:          decimal.NewFromInt(1),
		MicroMax:            decimal.RequireFromString("0.01"),
		SmallMax:            decimal.RequireFromString("0.1"),
		MediumMax:           decimal.NewFromInt(1),
		LargeMax:            decimal.NewFromInt(10),
		ScorePerTransaction: 10,
		ReputationStep:      10,
	}
}

// Validate checks the policy invariants.
func (p ScoringPolicy) Validate() error {
	if !p.VolumeUnit.IsPositive() {
		return ErrInvalidVolumeUnit
	}

	bounds := []decimal.Decimal{p.MicroMax, p.SmallMax, p.MediumMax, p.LargeMax}
	for i := 1; i < len(bounds); i++ {
		if !bounds[i-1].LessThan(bounds[i]) {
			return ErrInvalidTierBounds
		}
	}

	if !p.MicroMax.IsPositive() {
		return ErrInvalidTierBounds
	}

	if p.ScorePerTransaction == 0 || p.ReputationStep == 0 {
		return ErrInvalidScoringWeight
	}

	return nil
}

// Categorize maps a positive amount onto its volume tier. Bounds are
// inclusive below and exclusive above, so an amount equal to a tier's
// upper bound falls into the next tier.
func (p ScoringPolicy) Categorize(amount decimal.Decimal) Category {
	switch {
	case amount.LessThan(p.MicroMax.Mul(p.VolumeUnit)):
		return CategoryMicro
	case amount.LessThan(p.SmallMax.Mul(p.VolumeUnit)):
		return CategorySmall
	case amount.LessThan(p.MediumMax.Mul(p.VolumeUnit)):
		return CategoryMedium
	case amount.LessThan(p.LargeMax.Mul(p.VolumeUnit)):
		return CategoryLarge
	default:
		return CategoryWhale
	}
}

// Apply folds one transaction amount into the score and recomputes the
// derived fields. Score counts whole volume units only; partial units
// contribute nothing until they accumulate past the next whole unit.
func (p ScoringPolicy) Apply(score *PulseScore, amount decimal.Decimal, at time.Time) {
	score.TotalTransactions++
	score.TotalVolume = score.TotalVolume.Add(amount)
	score.Score = score.TotalTransactions*p.ScorePerTransaction + p.wholeUnits(score.TotalVolume)
	score.Reputation = score.TotalTransactions / p.ReputationStep
	score.LastUpdate = at
}

func (p ScoringPolicy) wholeUnits(volume decimal.Decimal) uint64 {
	units, _ := volume.QuoRem(p.VolumeUnit, 0)
	return uint64(units.IntPart())
}
