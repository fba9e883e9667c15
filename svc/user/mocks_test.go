package user_test

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSessionRemover is a mock implementation of user.SessionRemover.
type MockSessionRemover struct {
	mock.Mock
}

func (m *MockSessionRemover) DeleteSessions(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
