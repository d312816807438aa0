package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"huntermarket/internal/util"
	"huntermarket/pkg/auth"
	"huntermarket/pkg/domain"
	"huntermarket/pkg/storage"
	"huntermarket/pkg/store"
)

// Config holds the collaborators the core application wires together.
// Objects may be nil; uploads then fail with ErrStorageNotConfigured so a
// missing storage credential surfaces as a deployment error, not a crash.
type Config struct {
	Store    store.Store
	Sessions store.SessionStore
	Objects  storage.ObjectStore
}

// App is the core application service: the listing browse pipeline, the
// image upload relay, and the email/password session provider.
type App struct {
	store    store.Store
	sessions store.SessionStore
	objects  storage.ObjectStore
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("listing store required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store required")
	}
	return &App{
		store:    cfg.Store,
		sessions: cfg.Sessions,
		objects:  cfg.Objects,
	}, nil
}

// SignUp registers a new user and issues a session token. The first user
// to register becomes admin.
func (a *App) SignUp(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, "", err
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyExists
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	role := domain.RoleUser
	count, err := a.store.UserCount()
	if err != nil {
		return domain.User{}, "", fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		role = domain.RoleAdmin
	}
	user := domain.User{
		ID:           util.NewID(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and issues a session token.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// UserFromToken resolves a user from a session token.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// Logout removes a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// BrowseListings runs the filter/sort pipeline over the configured
// listing source.
func (a *App) BrowseListings(params domain.QueryParams) ([]domain.Listing, error) {
	listings, err := a.store.ListListings()
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return domain.QueryListings(listings, params), nil
}

// LatestListings returns the n most recently posted listings.
func (a *App) LatestListings(n int) ([]domain.Listing, error) {
	listings, err := a.store.ListListings()
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return domain.LatestListings(listings, n), nil
}

// GetListing retrieves a listing by ID.
func (a *App) GetListing(id string) (domain.Listing, error) {
	listing, ok, err := a.store.GetListing(id)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	if !ok {
		return domain.Listing{}, ErrListingNotFound
	}
	return listing, nil
}

// ListingInput carries the posting form fields for a new listing.
type ListingInput struct {
	Title         string
	Price         float64
	Category      string
	ImageURL      string
	Location      string
	Condition     string
	Description   string
	ContactMethod string
}

// CreateListing validates the posting form and stores a new listing.
// Seller identity comes from the authenticated user, never the form.
func (a *App) CreateListing(seller domain.User, input ListingInput) (domain.Listing, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Listing{}, fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	if input.Price < 0 {
		return domain.Listing{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidListing)
	}
	if !domain.ValidCategory(input.Category) {
		return domain.Listing{}, fmt.Errorf("%w: unknown category %q", ErrInvalidListing, input.Category)
	}
	if !domain.ValidCondition(input.Condition) {
		return domain.Listing{}, fmt.Errorf("%w: unknown condition %q", ErrInvalidListing, input.Condition)
	}
	sellerName := seller.Email
	if at := strings.IndexByte(sellerName, '@'); at > 0 {
		sellerName = sellerName[:at]
	}
	listing := domain.Listing{
		ID:            util.NewID(),
		Title:         title,
		Price:         input.Price,
		Category:      input.Category,
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Location:      strings.TrimSpace(input.Location),
		Condition:     input.Condition,
		Description:   strings.TrimSpace(input.Description),
		SellerName:    sellerName,
		SellerEmail:   seller.Email,
		DatePosted:    time.Now().UTC().Format(time.RFC3339),
		ContactMethod: input.ContactMethod,
	}
	if listing.ContactMethod == "" {
		listing.ContactMethod = "email"
	}
	if err := a.store.SaveListing(listing); err != nil {
		return domain.Listing{}, fmt.Errorf("save listing: %w", err)
	}
	return listing, nil
}

// DeleteListing removes a listing owned by the caller (admins may remove
// any) and best-effort deletes its stored image.
func (a *App) DeleteListing(ctx context.Context, caller domain.User, id string) error {
	listing, ok, err := a.store.GetListing(id)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}
	if !ok {
		return ErrListingNotFound
	}
	if listing.SellerEmail != caller.Email && caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := a.store.DeleteListing(id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if a.objects != nil {
		if key := objectKeyFromURL(listing.ImageURL); key != "" {
			if err := a.objects.Delete(ctx, key); err != nil {
				util.LoggerFromContext(ctx).Warn("delete listing image", "listing_id", id, "err", err)
			}
		}
	}
	return nil
}

// objectKeyFromURL extracts the object name from an image URL we issued.
// Foreign URLs (seed data, external images) yield "".
func objectKeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return ""
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" || !strings.Contains(key, ".") {
		return ""
	}
	return key
}
