package mocks

import (
	"context"

	"recipe-pipeline/core/generation"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of generation.Client
type Client struct {
	mock.Mock
}

func (m *Client) Complete(ctx context.Context, p generation.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}
