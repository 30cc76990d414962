package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a dictionary-backed provider for tests and dry runs.
// Unknown strings come back bracketed, e.g. "[Checkout]".
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // When set, every call fails with it

	mu        sync.Mutex
	callCount int
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":       "Hola",
			"World":       "Mundo",
			"Hello World": "Hola Mundo",
			"Add to cart": "Añadir al carrito",
			"Handmade":    "Hecho a mano",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// CallCount returns how many times Translate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

var _ AIProvider = (*MockProvider)(nil)
