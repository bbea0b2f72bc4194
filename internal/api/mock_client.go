package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of AnswerClient for testing
type MockClient struct {
	// Mock return values
	AnswerVal  string
	AnswerErr  error
	HealthVal  *HealthStatus
	HealthErr  error
	BaseURLVal string

	// AskFunc, when set, replaces AnswerVal/AnswerErr
	AskFunc func(ctx context.Context, question string) (string, error)

	// Release, when set, makes Ask block until it is closed or ctx ends
	Release chan struct{}

	// Call counters/recorders
	mu        sync.Mutex
	askCalls  int
	questions []string
	started   chan struct{}
}

// Ensure MockClient implements AnswerClient
var _ AnswerClient = (*MockClient)(nil)

// Started returns a channel that receives once per Ask call as soon as the
// call begins, before any blocking on Release
func (m *MockClient) Started() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started == nil {
		m.started = make(chan struct{}, 16)
	}
	return m.started
}

func (m *MockClient) Ask(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.askCalls++
	m.questions = append(m.questions, question)
	started := m.started
	m.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}

	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return m.AnswerVal, m.AnswerErr
}

func (m *MockClient) Health(ctx context.Context) (*HealthStatus, error) {
	return m.HealthVal, m.HealthErr
}

func (m *MockClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return "http://mock"
	}
	return m.BaseURLVal
}

// AskCalls returns how many times Ask was called
func (m *MockClient) AskCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.askCalls
}

// Questions returns the questions received, in order
func (m *MockClient) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.questions))
	copy(out, m.questions)
	return out
}
