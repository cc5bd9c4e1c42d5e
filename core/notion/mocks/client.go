package mocks

import (
	"context"

	"notion-sync/core/block"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of notion.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetPage(ctx context.Context, pageID string) (map[string]any, error) {
	args := m.Called(ctx, pageID)
	if page, ok := args.Get(0).(map[string]any); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListChildren(ctx context.Context, blockID string) ([]*block.Block, error) {
	args := m.Called(ctx, blockID)
	if blocks, ok := args.Get(0).([]*block.Block); ok {
		return blocks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AppendChildren(ctx context.Context, parentID string, children []*block.Block, afterID string) ([]string, error) {
	args := m.Called(ctx, parentID, children, afterID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) UpdateBlock(ctx context.Context, blockID string, payload map[string]any) error {
	args := m.Called(ctx, blockID, payload)
	return args.Error(0)
}

func (m *Client) DeleteBlock(ctx context.Context, blockID string) error {
	args := m.Called(ctx, blockID)
	return args.Error(0)
}

func (m *Client) UpdatePageTitle(ctx context.Context, pageID, title string) error {
	args := m.Called(ctx, pageID, title)
	return args.Error(0)
}
