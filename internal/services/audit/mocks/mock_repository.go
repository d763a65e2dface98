package mocks

import (
	"context"

	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock for audit.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertSessionEvent(ctx context.Context, e *models.SessionEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRepository) ListSessionEvents(ctx context.Context, username string, limit, offset int) ([]*models.SessionEvent, error) {
	args := m.Called(ctx, username, limit, offset)
	var out []*models.SessionEvent
	if v := args.Get(0); v != nil {
		out = v.([]*models.SessionEvent)
	}
	return out, args.Error(1)
}
