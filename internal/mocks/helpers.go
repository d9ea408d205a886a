package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockSenderForTest creates a new mock Sender for testing
func NewMockSenderForTest(t *testing.T) *MockSender {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockSender(ctrl)
}
