package domain

import "context"

// Gateway fetches directory records from whichever backend holds them.
type Gateway interface {
	ListCampuses(ctx context.Context) ([]Campus, error)
	ListAccommodations(ctx context.Context, s Scope) ([]Accommodation, error)
	ListRestaurants(ctx context.Context, s Scope) ([]Restaurant, error)
	ListClinics(ctx context.Context, s Scope) ([]Clinic, error)
}

// DirectoryClient reads raw rows of a directory table from the hosted backend.
type DirectoryClient interface {
	FetchRows(ctx context.Context, table string, s Scope) ([]map[string]any, error)
}

// DirectoryRepository is the local mirror written by the ingestor and read as a Gateway.
type DirectoryRepository interface {
	Gateway

	// Write paths
	UpsertCampus(ctx context.Context, c Campus) error
	ReplaceAccommodations(ctx context.Context, campusID int64, rs []Accommodation) error
	ReplaceRestaurants(ctx context.Context, campusID int64, rs []Restaurant) error
	ReplaceClinics(ctx context.Context, campusID int64, rs []Clinic) error
	LogMiss(ctx context.Context, campusID int64, table string, status int, reason string) error
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (AuthSession, error)
	SignUp(ctx context.Context, email, password string, profile Profile) (AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	RecoverPassword(ctx context.Context, email string) error
}

// CampusStore persists the selected campus per client session.
type CampusStore interface {
	Save(ctx context.Context, session string, c Campus) error
	Load(ctx context.Context, session string) (Campus, bool, error)
	Clear(ctx context.Context, session string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Auth read models
type Profile struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Profile
}

type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	User         User   `json:"user"`
}
