package transport

import (
	"github.com/stretchr/testify/mock"
)

// MockBus is a testify mock implementation of the Bus interface.
type MockBus struct {
	mock.Mock
}

var _ Bus = (*MockBus)(nil)

func NewMockBus() *MockBus {
	return &MockBus{}
}

func (m *MockBus) Exchange(frame []byte) error {
	args := m.Called(frame)
	return args.Error(0)
}

func (m *MockBus) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}
