package collector

import "context"

// Fetcher supplies the raw HTML of the crime statistics page.
type Fetcher interface {
	FetchPage(ctx context.Context) (string, error)
	Name() string
}

// MockFetcher returns fixed markup for development and testing.
type MockFetcher struct {
	Markup string
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPage(_ context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Markup, nil
}
