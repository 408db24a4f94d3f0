package process

import "testing"

// PID 0 and real PIDs are never used here: -0 would target our own process
// group. Actual termination is covered by the integration tests that check
// no browser outlives a conversion.
func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
