package status

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRevisionSource struct {
	mock.Mock
}

func (m *MockRevisionSource) Revisions(ctx context.Context) (Revisions, error) {
	args := m.Called(ctx)
	return args.Get(0).(Revisions), args.Error(1)
}

type MockDeploymentSource struct {
	mock.Mock
}

func (m *MockDeploymentSource) LatestDeployment(ctx context.Context) (Deployment, error) {
	args := m.Called(ctx)
	return args.Get(0).(Deployment), args.Error(1)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context) (ProbeResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(ProbeResult), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollector_Collect(t *testing.T) {
	t.Run("success - all signals gathered", func(t *testing.T) {
		// arrange
		revs := new(MockRevisionSource)
		revs.On("Revisions", mock.Anything).
			Return(Revisions{Current: "abc123", Pushed: "abc123"}, nil)
		deps := new(MockDeploymentSource)
		deps.On("LatestDeployment", mock.Anything).
			Return(Deployment{Revision: "abc123", ActiveJobs: 1}, nil)
		prober := new(MockProber)
		prober.On("Probe", mock.Anything).
			Return(ProbeResult{Reachable: true, StatusCode: 200, LatencyMS: 40}, nil)
		c := NewCollector(revs, deps, prober, testLogger())

		// act
		s := c.Collect(context.Background())

		// assert
		assert.Equal(t, "abc123", s.CurrentRevision)
		assert.Equal(t, "abc123", s.LatestDeployedRevision)
		assert.True(t, s.HasActiveJobs)
		assert.NotNil(t, s.Probe)
		assert.True(t, s.Probe.Reachable)
		assert.Equal(t, LabelUpdating, Reconcile(s))
	})

	t.Run("failure - remote query failure degrades to unknown", func(t *testing.T) {
		// arrange
		revs := new(MockRevisionSource)
		revs.On("Revisions", mock.Anything).
			Return(Revisions{Current: "abc123", Pushed: "abc123"}, nil)
		deps := new(MockDeploymentSource)
		deps.On("LatestDeployment", mock.Anything).
			Return(Deployment{}, errors.New("remote unavailable"))
		c := NewCollector(revs, deps, nil, testLogger())

		// act
		s := c.Collect(context.Background())

		// assert
		assert.Empty(t, s.LatestDeployedRevision)
		assert.False(t, s.HasActiveJobs)
		assert.Equal(t, LabelUnknown, Reconcile(s))
	})

	t.Run("failure - revision query failure zeroes every signal", func(t *testing.T) {
		// arrange
		revs := new(MockRevisionSource)
		revs.On("Revisions", mock.Anything).
			Return(Revisions{}, errors.New("not a repository"))
		deps := new(MockDeploymentSource)
		c := NewCollector(revs, deps, nil, testLogger())

		// act
		s := c.Collect(context.Background())

		// assert
		assert.Equal(t, Signals{}, s)
		assert.Equal(t, LabelUnknown, Reconcile(s))
		deps.AssertNotCalled(t, "LatestDeployment", mock.Anything)
	})

	t.Run("failure - probe error counts as unreachable", func(t *testing.T) {
		// arrange
		revs := new(MockRevisionSource)
		revs.On("Revisions", mock.Anything).
			Return(Revisions{Current: "abc123"}, nil)
		deps := new(MockDeploymentSource)
		deps.On("LatestDeployment", mock.Anything).
			Return(Deployment{Revision: "abc123"}, nil)
		prober := new(MockProber)
		prober.On("Probe", mock.Anything).
			Return(ProbeResult{}, errors.New("connection refused"))
		c := NewCollector(revs, deps, prober, testLogger())

		// act
		s := c.Collect(context.Background())

		// assert
		assert.NotNil(t, s.Probe)
		assert.False(t, s.Probe.Reachable)
		assert.Equal(t, LabelInaccessible, Reconcile(s))
	})
}
