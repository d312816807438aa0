package domain

import (
	"io"
	"time"
)

type Category string

const (
	CategoryTextbooks   Category = "Textbooks"
	CategoryElectronics Category = "Electronics"
	CategoryFurniture   Category = "Furniture"
	CategoryServices    Category = "Services"
	CategoryOther       Category = "Other"
)

// Categories lists the controlled vocabulary in filter-menu order.
var Categories = []Category{
	CategoryTextbooks,
	CategoryElectronics,
	CategoryFurniture,
	CategoryServices,
	CategoryOther,
}

// ValidCategory reports whether c is one of the recognized categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == string(known) {
			return true
		}
	}
	return false
}

type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

// ValidCondition reports whether c is a recognized condition. The empty
// string is allowed since condition is optional on a listing.
func ValidCondition(c string) bool {
	switch Condition(c) {
	case "", ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}

// Listing is a sellable item or service posted by a student.
// DatePosted is kept as the ISO-8601 string the posting form submits;
// sorting parses it lazily and tolerates malformed values.
type Listing struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"imageUrl"`
	Location      string  `json:"location,omitempty"`
	Condition     string  `json:"condition,omitempty"`
	Description   string  `json:"description,omitempty"`
	SellerName    string  `json:"sellerName,omitempty"`
	SellerEmail   string  `json:"sellerEmail,omitempty"`
	DatePosted    string  `json:"datePosted"`
	ContactMethod string  `json:"contactMethod,omitempty"`
}

// PostedTime parses the listing's posted timestamp. Malformed or missing
// timestamps yield the zero time so newest-first sorting pushes them last
// instead of failing.
func (l Listing) PostedTime() time.Time {
	t, err := time.Parse(time.RFC3339, l.DatePosted)
	if err != nil {
		return time.Time{}
	}
	return t
}

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FileBlob is a validated upload candidate built at the HTTP boundary after
// the multipart schema check. ContentType is the declared media type and
// Size the declared byte length; Data streams the payload.
type FileBlob struct {
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult describes a stored image blob.
type UploadResult struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
