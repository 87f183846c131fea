package state

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/drund/storedemo/internal/api"
	"github.com/drund/storedemo/internal/domain"
)

func testProduct(id int64, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Title: "Test Product",
		Price: decimal.RequireFromString(price),
	}
}

// fakeFetch describes one scripted FetchAll response.
// A nil gate returns immediately; otherwise FetchAll closes started (if set)
// and blocks until the gate is closed, so tests can interleave requests.
type fakeFetch struct {
	gate    chan struct{}
	started chan struct{}
	result  api.ProductsResult
}

// fakeCatalogClient is a scripted CatalogClient for state machine tests.
type fakeCatalogClient struct {
	mu    sync.Mutex
	queue []fakeFetch
	one   map[int64]api.ProductResult
}

func newFakeCatalogClient() *fakeCatalogClient {
	return &fakeCatalogClient{one: make(map[int64]api.ProductResult)}
}

func (f *fakeCatalogClient) enqueue(fetch fakeFetch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fetch)
}

func (f *fakeCatalogClient) FetchAll(ctx context.Context) api.ProductsResult {
	f.mu.Lock()
	if len(f.queue) == 0 {
		f.mu.Unlock()
		return api.ProductsResult{Status: api.StatusEmpty, Products: []domain.Product{}}
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	f.mu.Unlock()

	if next.started != nil {
		close(next.started)
	}
	if next.gate != nil {
		<-next.gate
	}
	return next.result
}

func (f *fakeCatalogClient) FetchOne(ctx context.Context, id int64) api.ProductResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res, ok := f.one[id]; ok {
		return res
	}
	return api.ProductResult{Status: api.StatusEmpty}
}

// mockCartStore records every write-through so tests can assert ordering
// and payloads.
type mockCartStore struct {
	mu      sync.Mutex
	loaded  []domain.CartItem
	saves   [][]domain.CartItem
	saveErr error
	cleared int
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{}
}

func (m *mockCartStore) Load(ctx context.Context) []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *mockCartStore) Save(ctx context.Context, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	saved := make([]domain.CartItem, len(items))
	copy(saved, items)
	m.saves = append(m.saves, saved)
	return nil
}

func (m *mockCartStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	return nil
}

func (m *mockCartStore) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

func (m *mockCartStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func (m *mockCartStore) lastSave() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}
