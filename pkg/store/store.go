package store

import "huntermarket/pkg/domain"

// Store defines persistence operations for users and listings. The browse
// pipeline is agnostic to whether listings come from the seeded in-memory
// table or Postgres; both implementations satisfy this contract.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	UserCount() (int, error)

	// listings
	SaveListing(domain.Listing) error
	ListListings() ([]domain.Listing, error)
	GetListing(id string) (domain.Listing, bool, error)
	DeleteListing(id string) error
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
