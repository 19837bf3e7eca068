package mock

import "context"

type MockPublisher struct {
	Err    error
	Called bool
	Dir    string
	Prefix string
}

func (m *MockPublisher) PublishPackage(ctx context.Context, dir, prefix string) error {
	m.Called = true
	m.Dir = dir
	m.Prefix = prefix
	return m.Err
}
