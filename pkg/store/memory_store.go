package store

import (
	"sync"

	"huntermarket/pkg/domain"
)

// MemoryStore keeps users and listings in-process. It backs the demo
// configuration and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[string]domain.Listing
	order    []string // listing IDs in insertion order
	users    map[string]domain.User
	email    map[string]string // email -> user ID
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings: make(map[string]domain.Listing),
		users:    make(map[string]domain.User),
		email:    make(map[string]string),
	}
}

// NewDemoStore returns a MemoryStore pre-populated with the demo listings.
func NewDemoStore() *MemoryStore {
	m := NewMemoryStore()
	for _, l := range DemoListings() {
		_ = m.SaveListing(l)
	}
	return m
}

// SaveListing stores or replaces a listing and tracks insertion order so
// ListListings stays deterministic.
func (m *MemoryStore) SaveListing(l domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.listings[l.ID]; !exists {
		m.order = append(m.order, l.ID)
	}
	m.listings[l.ID] = l
	return nil
}

// ListListings returns listings in insertion order.
func (m *MemoryStore) ListListings() ([]domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Listing, 0, len(m.order))
	for _, id := range m.order {
		if l, ok := m.listings[id]; ok {
			res = append(res, l)
		}
	}
	return res, nil
}

// GetListing retrieves a listing by ID.
func (m *MemoryStore) GetListing(id string) (domain.Listing, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.listings[id]
	return l, ok, nil
}

// DeleteListing removes a listing.
func (m *MemoryStore) DeleteListing(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listings, id)
	filtered := m.order[:0]
	for _, item := range m.order {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.order = filtered
	return nil
}

// SaveUser registers a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// UserCount returns number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}
