package domain

const (
	// Trust score bounds
	MinTrustScore     = 0
	MaxTrustScore     = 100
	InitialTrustScore = 100

	// Classifier thresholds
	RollbackToleranceKM    = -5.0   // small negative deltas are sensor noise
	MaxPlausibleSpeedKMH   = 120.0  // km/h ceiling for distance plausibility
	SuddenJumpThresholdKM  = 1000.0 // jump size that is suspicious inside a day
	SuddenJumpWindowHours  = 24.0

	// Classifier fraud contributions
	FraudScoreRollback           = 50
	FraudScoreImpossibleDistance = 30
	FraudScoreSuddenJump         = 20

	// Day-level finalize contributions
	FraudScoreDayRollback       = 50
	FraudScoreDayUnrealistic    = 30
	FraudScoreLowSignalQuality  = 20
	FraudScorePerFlaggedReading = 10

	// A finalized batch is valid while its cumulative fraud score stays below this
	BatchFraudThreshold = 50

	// Minimum average signal quality before the low-data-quality anomaly fires
	MinAvgSignalQuality = 70.0

	// Prefix of locally generated fallback transaction references
	LocalAnchorRefPrefix = "local:"
)
