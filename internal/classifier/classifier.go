// Package classifier implements the per-reading odometer fraud classifier.
// It is a pure function over (previous mileage, reported mileage, elapsed time)
// and is safe to call concurrently without synchronization.
package classifier

import (
	"github.com/veridrive/veridrive/internal/domain"
)

// Classify evaluates a newly reported odometer value against the last accepted
// one. The rules are ordered and first-match-wins: rollback, then impossible
// distance, then sudden jump, else valid. Contributions are not cumulative
// across branches; day-level aggregation accumulates separately at finalize.
func Classify(previousMileage, reportedMileage, elapsedHours float64) domain.ValidationVerdict {
	delta := reportedMileage - previousMileage

	if delta < domain.RollbackToleranceKM {
		return domain.ValidationVerdict{
			Status:     domain.VerdictRollback,
			DeltaKM:    delta,
			FraudScore: domain.FraudScoreRollback,
			ReasonCode: domain.ReasonRollback,
		}
	}

	if elapsedHours > 0 && delta > elapsedHours*domain.MaxPlausibleSpeedKMH {
		return domain.ValidationVerdict{
			Status:     domain.VerdictSuspicious,
			DeltaKM:    delta,
			FraudScore: domain.FraudScoreImpossibleDistance,
			ReasonCode: domain.ReasonImpossibleDistance,
		}
	}

	if delta > domain.SuddenJumpThresholdKM && elapsedHours < domain.SuddenJumpWindowHours {
		return domain.ValidationVerdict{
			Status:     domain.VerdictSuspicious,
			DeltaKM:    delta,
			FraudScore: domain.FraudScoreSuddenJump,
			ReasonCode: domain.ReasonSuddenJump,
		}
	}

	return domain.ValidationVerdict{
		Status:     domain.VerdictValid,
		DeltaKM:    delta,
		FraudScore: 0,
		ReasonCode: domain.ReasonNone,
	}
}
