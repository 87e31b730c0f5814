package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		timedOut bool
		artifact bool
		want     ScanOutcome
	}{
		{"clean exit no artifact", 0, false, false, OutcomeSuccess},
		{"clean exit with artifact", 0, false, true, OutcomeFindings},
		{"nonzero exit", 2, false, false, OutcomeFailed},
		{"nonzero exit with artifact", 2, false, true, OutcomeFailed},
		{"launch failure", -1, false, false, OutcomeFailed},
		{"timeout beats clean exit code", 0, true, false, OutcomeTimedOut},
		{"timeout beats artifact", 0, true, true, OutcomeTimedOut},
		{"timeout beats nonzero exit", 137, true, false, OutcomeTimedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.exitCode, tt.timedOut, tt.artifact))
		})
	}
}

func TestRunCountersRecord(t *testing.T) {
	var c RunCounters
	for _, o := range []ScanOutcome{
		OutcomeSuccess, OutcomeFindings, OutcomeFailed, OutcomeTimedOut, OutcomeFindings,
	} {
		c.Record(o)
	}

	assert.Equal(t, 5, c.Total)
	assert.Equal(t, 3, c.Succeeded)
	assert.Equal(t, 2, c.Failed)
	assert.Equal(t, 2, c.FoundSecrets)

	// Completed-run invariants.
	assert.Equal(t, c.Total, c.Succeeded+c.Failed)
	assert.LessOrEqual(t, c.FoundSecrets, c.Succeeded)
}
