package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	t.Run("success - unpushed changes force local-ahead over everything", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "abc123",
			HasUnpushedChanges:     true,
			HasActiveJobs:          true,
			Probe:                  &ProbeResult{Reachable: true, StatusCode: 200},
		}

		// act & assert
		assert.Equal(t, LabelLocalAhead, Reconcile(s))
	})

	t.Run("success - diverged revisions with active jobs means deploying", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "def456",
			HasActiveJobs:          true,
		}

		// act & assert
		assert.Equal(t, LabelDeploying, Reconcile(s))
	})

	t.Run("success - diverged revisions without jobs means pending-unknown", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "def456",
		}

		// act & assert
		assert.Equal(t, LabelPendingUnknown, Reconcile(s))
	})

	t.Run("success - matching revisions without probe means synced", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abcdef12",
			LatestDeployedRevision: "abcdef12",
		}

		// act & assert
		assert.Equal(t, LabelSynced, Reconcile(s))
	})

	t.Run("success - unknown deployed revision with active jobs means deploying", func(t *testing.T) {
		// scenario: nothing pushed locally, remote revision absent, job running
		s := Signals{HasActiveJobs: true}

		assert.Equal(t, LabelDeploying, Reconcile(s))
	})

	t.Run("success - unknown deployed revision without jobs means unknown", func(t *testing.T) {
		assert.Equal(t, LabelUnknown, Reconcile(Signals{}))
	})

	t.Run("success - synced and reachable means healthy", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "abc123",
			Probe:                  &ProbeResult{Reachable: true, StatusCode: 200, LatencyMS: 12},
		}

		// act & assert
		assert.Equal(t, LabelHealthy, Reconcile(s))
	})

	t.Run("success - synced and reachable with stale job means updating", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "abc123",
			HasActiveJobs:          true,
			Probe:                  &ProbeResult{Reachable: true, StatusCode: 200},
		}

		// act & assert
		assert.Equal(t, LabelUpdating, Reconcile(s))
	})

	t.Run("success - deploying stays deploying while unreachable", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "def456",
			HasActiveJobs:          true,
			Probe:                  &ProbeResult{Reachable: false},
		}

		// act & assert
		assert.Equal(t, LabelDeploying, Reconcile(s))
	})

	t.Run("success - any other unreachable case is inaccessible", func(t *testing.T) {
		// arrange
		synced := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "abc123",
			Probe:                  &ProbeResult{Reachable: false},
		}
		pending := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "def456",
			Probe:                  &ProbeResult{Reachable: false},
		}

		// act & assert
		assert.Equal(t, LabelInaccessible, Reconcile(synced))
		assert.Equal(t, LabelInaccessible, Reconcile(pending))
	})

	t.Run("success - identical signals always yield the identical label", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "abc123",
			HasActiveJobs:          true,
			Probe:                  &ProbeResult{Reachable: true},
		}

		// act
		first := Reconcile(s)
		for i := 0; i < 100; i++ {
			// assert
			assert.Equal(t, first, Reconcile(s))
		}
	})
}

func TestRevisionsMatch(t *testing.T) {
	t.Run("success - prefix matching is symmetric", func(t *testing.T) {
		assert.True(t, RevisionsMatch("abcdef12", "abcdef1234567890"))
		assert.True(t, RevisionsMatch("abcdef1234567890", "abcdef12"))
		assert.True(t, RevisionsMatch("abcdef12", "abcdef12"))
	})

	t.Run("failure - empty revisions never match", func(t *testing.T) {
		assert.False(t, RevisionsMatch("", "abcdef12"))
		assert.False(t, RevisionsMatch("abcdef12", ""))
		assert.False(t, RevisionsMatch("", ""))
	})

	t.Run("failure - diverged revisions do not match", func(t *testing.T) {
		assert.False(t, RevisionsMatch("abcdef12", "def45678"))
	})
}

func TestReconcile_PrefixedRevisions(t *testing.T) {
	t.Run("success - abbreviated deployed revision still counts as synced", func(t *testing.T) {
		// arrange
		s := Signals{
			CurrentRevision:        "abcdef1234567890",
			LatestDeployedRevision: "abcdef12",
		}

		// act & assert
		assert.Equal(t, LabelSynced, Reconcile(s))
	})
}
