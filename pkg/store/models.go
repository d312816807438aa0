package store

import "time"

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type ListingModel struct {
	ID            string  `gorm:"primaryKey"`
	Title         string  `gorm:"not null"`
	Price         float64 `gorm:"not null"`
	Category      string  `gorm:"not null;index"`
	ImageURL      string
	Location      string
	Condition     string
	Description   string `gorm:"type:text"`
	SellerName    string
	SellerEmail   string `gorm:"index"`
	DatePosted    string `gorm:"not null"`
	ContactMethod string
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time
}
