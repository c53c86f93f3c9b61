package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/haatos/deckhand/internal/status"
)

type MockStatusSource struct {
	mock.Mock
}

func (m *MockStatusSource) Collect(ctx context.Context) status.Signals {
	args := m.Called(ctx)
	return args.Get(0).(status.Signals)
}
