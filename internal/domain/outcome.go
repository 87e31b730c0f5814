package domain

// Classify maps a worker's raw observation to a terminal outcome.
//
// Timeout takes precedence over the exit code: a killed process's exit code
// carries no meaning. A zero exit with a non-empty findings artifact is the
// only path to OutcomeFindings.
func Classify(exitCode int, timedOut, artifactNonEmpty bool) ScanOutcome {
	switch {
	case timedOut:
		return OutcomeTimedOut
	case exitCode != 0:
		return OutcomeFailed
	case artifactNonEmpty:
		return OutcomeFindings
	default:
		return OutcomeSuccess
	}
}
