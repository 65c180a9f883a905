package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	args := m.Called(ctx, jti, until)
	return args.Error(0)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
