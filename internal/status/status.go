// Package status reconciles local revision state, remote deployment
// state and reachability into a single coarse deployment-status label.
package status

import "strings"

// Label is the coarse deployment status derived from reconciliation.
type Label string

const (
	// LabelLocalAhead - the working tree has changes not yet pushed.
	LabelLocalAhead Label = "local-ahead"
	// LabelDeploying - the remote is behind and a deploy job is active.
	LabelDeploying Label = "deploying"
	// LabelPendingUnknown - the remote is behind with no visible job.
	LabelPendingUnknown Label = "pending-unknown"
	// LabelSynced - the deployed revision matches the local one.
	LabelSynced Label = "synced"
	// LabelUnknown - the deployed revision could not be determined.
	LabelUnknown Label = "unknown"
	// LabelHealthy - synced and the target responds.
	LabelHealthy Label = "healthy"
	// LabelUpdating - synced and responding, but a job is still active.
	LabelUpdating Label = "updating"
	// LabelInaccessible - the target does not respond.
	LabelInaccessible Label = "inaccessible"
)

func (l Label) String() string {
	return string(l)
}

// ProbeResult is the outcome of one reachability probe.
type ProbeResult struct {
	Reachable  bool
	StatusCode int
	LatencyMS  int64
	Bytes      int64
}

// Signals is everything reconciliation looks at, gathered in one
// pass. Zero-value string fields mean the signal was unobtainable.
// A nil Probe means no probe was attempted.
type Signals struct {
	CurrentRevision        string
	LatestPushedRevision   string
	LatestDeployedRevision string
	HasUnpushedChanges     bool
	HasActiveJobs          bool
	Probe                  *ProbeResult
}

// Reconcile maps signals to a label. It is a pure function: the rules
// are strictly ordered and the first match wins, so labels stay
// unambiguous when several signals apply at once. A revision
// reconciliation stage runs first, then a reachability refinement
// stage folds in the probe, modelling the lag between "pushed" and
// "visibly live".
func Reconcile(s Signals) Label {
	return refine(reconcileRevisions(s), s)
}

func reconcileRevisions(s Signals) Label {
	if s.HasUnpushedChanges {
		return LabelLocalAhead
	}
	if s.LatestDeployedRevision != "" {
		if !RevisionsMatch(s.LatestDeployedRevision, s.CurrentRevision) {
			if s.HasActiveJobs {
				return LabelDeploying
			}
			return LabelPendingUnknown
		}
		return LabelSynced
	}
	if s.HasActiveJobs {
		return LabelDeploying
	}
	return LabelUnknown
}

func refine(label Label, s Signals) Label {
	if s.Probe == nil {
		return label
	}
	if s.Probe.Reachable {
		if label == LabelSynced {
			if s.HasActiveJobs {
				// stale success signal: target answers but a
				// job is still reshaping it
				return LabelUpdating
			}
			return LabelHealthy
		}
		return label
	}
	if label == LabelDeploying {
		return LabelDeploying
	}
	return LabelInaccessible
}

// RevisionsMatch reports whether two revision identifiers name the
// same commit, tolerating abbreviated-vs-full forms: either one may
// be a prefix of the other. Empty identifiers never match.
func RevisionsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}
