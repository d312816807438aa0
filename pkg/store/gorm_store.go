package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"huntermarket/pkg/domain"
)

// GormStore implements Store using GORM + Postgres. It backs the live
// configuration; the demo configuration uses MemoryStore instead.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &ListingModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser registers or updates a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "password_hash", "role"}),
	}).Create(&model).Error
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// UserCount returns number of users.
func (s *GormStore) UserCount() (int, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// SaveListing stores or updates a listing.
func (s *GormStore) SaveListing(l domain.Listing) error {
	model := listingToModel(l)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "price", "category", "image_url", "location", "condition",
			"description", "seller_name", "seller_email", "date_posted",
			"contact_method", "updated_at",
		}),
	}).Create(&model).Error
}

// ListListings returns all listings ordered by insertion time so the query
// engine sees a deterministic input sequence.
func (s *GormStore) ListListings() ([]domain.Listing, error) {
	var models []ListingModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Listing, 0, len(models))
	for _, m := range models {
		res = append(res, listingFromModel(m))
	}
	return res, nil
}

// GetListing retrieves a listing.
func (s *GormStore) GetListing(id string) (domain.Listing, bool, error) {
	var model ListingModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Listing{}, false, nil
		}
		return domain.Listing{}, false, err
	}
	return listingFromModel(model), true, nil
}

// DeleteListing removes a listing.
func (s *GormStore) DeleteListing(id string) error {
	return s.db.Delete(&ListingModel{}, "id = ?", id).Error
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func listingToModel(l domain.Listing) ListingModel {
	return ListingModel{
		ID:            l.ID,
		Title:         l.Title,
		Price:         l.Price,
		Category:      l.Category,
		ImageURL:      l.ImageURL,
		Location:      l.Location,
		Condition:     l.Condition,
		Description:   l.Description,
		SellerName:    l.SellerName,
		SellerEmail:   l.SellerEmail,
		DatePosted:    l.DatePosted,
		ContactMethod: l.ContactMethod,
	}
}

func listingFromModel(m ListingModel) domain.Listing {
	return domain.Listing{
		ID:            m.ID,
		Title:         m.Title,
		Price:         m.Price,
		Category:      m.Category,
		ImageURL:      m.ImageURL,
		Location:      m.Location,
		Condition:     m.Condition,
		Description:   m.Description,
		SellerName:    m.SellerName,
		SellerEmail:   m.SellerEmail,
		DatePosted:    m.DatePosted,
		ContactMethod: m.ContactMethod,
	}
}
