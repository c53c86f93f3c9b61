package status

import (
	"context"
	"log/slog"
)

// Revisions is the local revision-control view of the world.
type Revisions struct {
	Current  string
	Pushed   string
	Unpushed bool
}

// Deployment is the remote platform's view of the world.
type Deployment struct {
	Revision   string
	ActiveJobs int
}

// RevisionSource answers local revision-control queries.
type RevisionSource interface {
	Revisions(ctx context.Context) (Revisions, error)
}

// DeploymentSource answers remote deployment-state queries.
type DeploymentSource interface {
	LatestDeployment(ctx context.Context) (Deployment, error)
}

// Prober checks whether the deployed target is reachable.
type Prober interface {
	Probe(ctx context.Context) (ProbeResult, error)
}

// Collector gathers Signals from the configured sources. Sources may
// be nil (no probe configured, no remote platform configured); the
// collector degrades toward the unknown label instead of inferring a
// confident one from partial data.
type Collector struct {
	revisions   RevisionSource
	deployments DeploymentSource
	prober      Prober
	logger      *slog.Logger
}

func NewCollector(
	revisions RevisionSource,
	deployments DeploymentSource,
	prober Prober,
	logger *slog.Logger,
) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		revisions:   revisions,
		deployments: deployments,
		prober:      prober,
		logger:      logger,
	}
}

// Collect assembles one set of Signals. A failed revision query zeroes
// every signal so reconciliation lands on the unknown label; a failed
// remote query leaves the deployed revision unknown; a failed probe
// counts as unreachable, since failing to connect is the signal.
func (c *Collector) Collect(ctx context.Context) Signals {
	var s Signals

	if c.revisions != nil {
		revs, err := c.revisions.Revisions(ctx)
		if err != nil {
			c.logger.Warn("revision query failed", "error", err)
			return Signals{}
		}
		s.CurrentRevision = revs.Current
		s.LatestPushedRevision = revs.Pushed
		s.HasUnpushedChanges = revs.Unpushed
	}

	if c.deployments != nil {
		dep, err := c.deployments.LatestDeployment(ctx)
		if err != nil {
			c.logger.Warn("remote status query failed", "error", err)
		} else {
			s.LatestDeployedRevision = dep.Revision
			s.HasActiveJobs = dep.ActiveJobs > 0
		}
	}

	if c.prober != nil {
		probe, err := c.prober.Probe(ctx)
		if err != nil {
			c.logger.Warn("reachability probe failed", "error", err)
			s.Probe = &ProbeResult{Reachable: false}
		} else {
			s.Probe = &probe
		}
	}

	return s
}
