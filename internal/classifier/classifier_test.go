package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veridrive/veridrive/internal/classifier"
	"github.com/veridrive/veridrive/internal/domain"
)

func TestClassify_Rollback(t *testing.T) {
	verdict := classifier.Classify(66000, 82, 1)

	assert.Equal(t, domain.VerdictRollback, verdict.Status)
	assert.Equal(t, domain.ReasonRollback, verdict.ReasonCode)
	assert.Equal(t, 50, verdict.FraudScore)
	assert.Equal(t, float64(-65918), verdict.DeltaKM)
}

func TestClassify_RollbackBeyondTolerance(t *testing.T) {
	// -10 km exceeds the -5 km sensor noise tolerance
	verdict := classifier.Classify(66000, 65990, 2)

	assert.Equal(t, domain.VerdictRollback, verdict.Status)
	assert.Equal(t, float64(-10), verdict.DeltaKM)
}

func TestClassify_SmallNegativeDeltaWithinTolerance(t *testing.T) {
	// -3 km is within tolerance and treated as sensor noise
	verdict := classifier.Classify(66000, 65997, 2)

	assert.Equal(t, domain.VerdictValid, verdict.Status)
	assert.Equal(t, 0, verdict.FraudScore)
	assert.Equal(t, float64(-3), verdict.DeltaKM)
}

func TestClassify_Valid(t *testing.T) {
	verdict := classifier.Classify(66000, 66100, 2)

	assert.Equal(t, domain.VerdictValid, verdict.Status)
	assert.Equal(t, domain.ReasonNone, verdict.ReasonCode)
	assert.Equal(t, 0, verdict.FraudScore)
	assert.Equal(t, float64(100), verdict.DeltaKM)
}

func TestClassify_ImpossibleDistance(t *testing.T) {
	// 200 km in one hour exceeds the 120 km/h ceiling
	verdict := classifier.Classify(1000, 1200, 1)

	assert.Equal(t, domain.VerdictSuspicious, verdict.Status)
	assert.Equal(t, domain.ReasonImpossibleDistance, verdict.ReasonCode)
	assert.Equal(t, 30, verdict.FraudScore)
}

func TestClassify_SuddenJump(t *testing.T) {
	// 1500 km in 13 hours is under the speed ceiling (1560 km) but over the
	// 1000 km jump threshold within a day
	verdict := classifier.Classify(10000, 11500, 13)

	assert.Equal(t, domain.VerdictSuspicious, verdict.Status)
	assert.Equal(t, domain.ReasonSuddenJump, verdict.ReasonCode)
	assert.Equal(t, 20, verdict.FraudScore)
}

func TestClassify_SuddenJump_ZeroElapsed(t *testing.T) {
	// With no elapsed time the speed rule cannot fire, but the jump rule can
	verdict := classifier.Classify(10000, 11500, 0)

	assert.Equal(t, domain.VerdictSuspicious, verdict.Status)
	assert.Equal(t, domain.ReasonSuddenJump, verdict.ReasonCode)
}

func TestClassify_RollbackTakesPriority(t *testing.T) {
	// A rollback is reported first even when other rules could match
	verdict := classifier.Classify(70000, 100, 0)

	assert.Equal(t, domain.VerdictRollback, verdict.Status)
	assert.Equal(t, 50, verdict.FraudScore)
}

func TestClassify_ExactToleranceBoundary(t *testing.T) {
	// Exactly -5 is not a rollback; the rule requires delta < -5
	verdict := classifier.Classify(66000, 65995, 1)

	assert.Equal(t, domain.VerdictValid, verdict.Status)
}

func TestClassify_ExactSpeedBoundary(t *testing.T) {
	// Exactly hours*120 is allowed; the rule requires strictly greater
	verdict := classifier.Classify(1000, 1240, 2)

	assert.Equal(t, domain.VerdictValid, verdict.Status)
}
