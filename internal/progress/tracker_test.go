package progress

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestTracker(t *testing.T) {
	tests := map[string]struct {
		lines         []string
		expectedValue int
		expectedState State
	}{
		"no output": {
			expectedValue: 0,
			expectedState: Running,
		},
		"each stage advances": {
			lines:         []string{"Erasing /dev/sdb", "Partitioning", "Copying files"},
			expectedValue: 50,
			expectedState: Running,
		},
		"unrelated lines are ignored": {
			lines:         []string{"Mounting filesystem", "Copying", "done"},
			expectedValue: 50,
			expectedState: Running,
		},
		"stages never move backwards": {
			lines:         []string{"Installing bootloader", "Copying", "Erasing"},
			expectedValue: 85,
			expectedState: Running,
		},
		"success is terminal": {
			lines:         []string{"Copying", "INFO: Installation succeeded!", "Erasing", "Copying"},
			expectedValue: 100,
			expectedState: Succeeded,
		},
		"error resets from any value": {
			lines:         []string{"Installing bootloader", "ERROR: Installation failed with return code 1."},
			expectedValue: 0,
			expectedState: Failed,
		},
		"error resets after success": {
			lines:         []string{"INFO: Installation succeeded!", "ERROR: Subprocess error: broken pipe"},
			expectedValue: 0,
			expectedState: Failed,
		},
		"error outranks other markers on the same line": {
			lines:         []string{"Erasing", "ERROR: Copying failed"},
			expectedValue: 0,
			expectedState: Failed,
		},
		"marker match is case sensitive": {
			lines:         []string{"Copying", "Error: something odd"},
			expectedValue: 50,
			expectedState: Running,
		},
		"later attempt restarts a failed run": {
			lines:         []string{"Copying", "ERROR: oops", "Erasing"},
			expectedValue: 10,
			expectedState: Running,
		},
		"success after failure": {
			lines:         []string{"ERROR: Authentication canceled.", "INFO: Installation succeeded!"},
			expectedValue: 100,
			expectedState: Succeeded,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tracker := NewTracker()
			for _, line := range tc.lines {
				tracker.Observe(line)
			}
			assert.Equal(t, tc.expectedValue, tracker.Value())
			assert.Equal(t, tc.expectedState, tracker.State())
		})
	}
}

func TestTrackerObserveReportsChanges(t *testing.T) {
	tracker := NewTracker()
	assert.False(t, tracker.Observe("Mounting"))
	assert.True(t, tracker.Observe("Copying"))
	assert.False(t, tracker.Observe("Copying"))
	assert.False(t, tracker.Observe("Erasing"))
	assert.True(t, tracker.Observe("ERROR: nope"))
	assert.False(t, tracker.Observe("ERROR: still nope"))
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker()
	tracker.Observe("Installation succeeded")
	tracker.Reset()
	assert.Equal(t, 0, tracker.Value())
	assert.Equal(t, Running, tracker.State())
	assert.True(t, tracker.Observe("Erasing"))
	assert.Equal(t, 10, tracker.Value())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "[----------]   0%", Bar(0, 10))
	assert.Equal(t, "[#####-----]  50%", Bar(50, 10))
	assert.Equal(t, "[##########] 100%", Bar(100, 10))
	assert.Equal(t, "[##########] 100%", Bar(140, 10))
	assert.Equal(t, "[----------]   0%", Bar(-5, 10))
}
