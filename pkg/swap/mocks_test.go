package swap_test

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPrompter implements swap.Prompter for testing
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) PromptText(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) PromptSelect(ctx context.Context, title string, options []string) (string, error) {
	args := m.Called(ctx, title, options)
	return args.String(0), args.Error(1)
}

// MockNotifier implements swap.Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Alert(ctx context.Context, title, message string) error {
	args := m.Called(ctx, title, message)
	return args.Error(0)
}

// MockLauncher implements swap.Launcher for testing
type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) Launch(uri string) error {
	args := m.Called(uri)
	return args.Error(0)
}
