package handlers_test

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/zag-shortener/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// mockStore is a test double for shortener.Repository that can be configured to return errors.
type mockStore struct {
	saveErr      error
	getByCodeErr error
	saved        *shortener.Mapping
}

func (m *mockStore) Save(_ context.Context, mapping *shortener.Mapping) error {
	m.saved = mapping

	return m.saveErr
}

func (m *mockStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Mapping, error) {
	if m.getByCodeErr != nil {
		return nil, m.getByCodeErr
	}

	return &shortener.Mapping{Code: code, OriginalURL: testURL, CreatedAt: time.Now()}, nil
}
