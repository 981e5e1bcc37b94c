package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func TestClassify_MissingTargetAlwaysProcessed(t *testing.T) {
	for _, copyFiles := range []bool{true, false} {
		for _, deleteFiles := range []bool{true, false} {
			c := Classify(
				Facts{Now: now, SourceModTime: now.Add(-100 * day)},
				Policy{OlderThan: 30, CopyFiles: copyFiles, DeleteFiles: deleteFiles},
			)
			assert.False(t, c.Copied)
			assert.True(t, c.ShouldProcess, "copy=%v delete=%v", copyFiles, deleteFiles)
			assert.False(t, c.ShouldDelete, "never delete an unmirrored file")
		}
	}
}

func TestClassify_OldBoundary(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		old  bool
	}{
		{name: "one second short", age: 30*day - time.Second, old: false},
		{name: "exactly threshold", age: 30 * day, old: true},
		{name: "well past", age: 45*day + 3*time.Hour, old: true},
		{name: "fresh", age: time.Hour, old: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(Facts{Now: now, SourceModTime: now.Add(-tt.age)}, Policy{OlderThan: 30})
			assert.Equal(t, tt.old, c.Old)
			assert.Equal(t, tt.old, c.AgeDays >= 30)
		})
	}
}

func TestClassify_ZeroThresholdMakesEverythingOld(t *testing.T) {
	c := Classify(Facts{Now: now, SourceModTime: now}, Policy{OlderThan: 0})
	assert.True(t, c.Old)
}

func TestClassify_DeleteNeedsAllThree(t *testing.T) {
	base := func(old, copied, deleteFiles bool) Classification {
		srcAge := time.Hour
		if old {
			srcAge = 40 * day
		}
		return Classify(
			Facts{
				Now:           now,
				SourceModTime: now.Add(-srcAge),
				TargetExists:  copied,
				TargetModTime: now,
			},
			Policy{OlderThan: 30, DeleteFiles: deleteFiles},
		)
	}

	assert.True(t, base(true, true, true).ShouldDelete)
	assert.False(t, base(false, true, true).ShouldDelete)
	assert.False(t, base(true, false, true).ShouldDelete)
	assert.False(t, base(true, true, false).ShouldDelete)
}

func TestClassify_StaleTarget(t *testing.T) {
	facts := Facts{
		Now:           now,
		SourceModTime: now.Add(-time.Hour),
		TargetExists:  true,
		TargetModTime: now.Add(-2 * time.Hour),
	}

	c := Classify(facts, Policy{OlderThan: 30, CopyFiles: true})
	assert.True(t, c.Updated, "source modified after target")
	assert.True(t, c.ShouldProcess)

	c = Classify(facts, Policy{OlderThan: 30, CopyFiles: false})
	assert.True(t, c.Updated)
	assert.False(t, c.ShouldProcess, "stale targets are refreshed only when copying")
}

func TestClassify_FreshTarget(t *testing.T) {
	for _, targetMod := range []time.Time{now.Add(-time.Hour), now} {
		c := Classify(Facts{
			Now:           now,
			SourceModTime: now.Add(-time.Hour),
			TargetExists:  true,
			TargetModTime: targetMod,
		}, Policy{OlderThan: 30, CopyFiles: true})
		assert.False(t, c.Updated)
		assert.False(t, c.ShouldProcess)
	}
}

func TestAgeDays(t *testing.T) {
	assert.Equal(t, 0, AgeDays(0))
	assert.Equal(t, 0, AgeDays(23*time.Hour))
	assert.Equal(t, 1, AgeDays(day))
	assert.Equal(t, 2, AgeDays(2*day+time.Minute))
	assert.Equal(t, -1, AgeDays(-time.Minute))
	assert.Equal(t, -1, AgeDays(-day))
	assert.Equal(t, -2, AgeDays(-day-time.Second))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "recoverable", OutcomeRecoverable.String())
	assert.Equal(t, "fatal", OutcomeFatal.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
