package domain

import (
	"context"
	"time"
)

// ItemCollection is the client-side view of the item collection API
type ItemCollection interface {
	ListItems(ctx context.Context) ([]Item, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, favorite bool) (*Item, error)
}

// OCRClient uploads an image to the OCR collaborator
type OCRClient interface {
	UploadImage(ctx context.Context, filename string, image []byte) (*OCRScan, error)
}

// Authenticator issues bearer tokens for an account
type Authenticator interface {
	Register(ctx context.Context, creds Credentials) (*TokenResponse, error)
	Login(ctx context.Context, creds Credentials) (*TokenResponse, error)
	Me(ctx context.Context) (*UserMe, error)
}

// TokenSource hands out the bearer token of the active session
type TokenSource interface {
	Token() string
}

// ItemRepository persists items on the server
type ItemRepository interface {
	ListByUser(ctx context.Context, userID string) ([]StoredItem, error)
	GetByID(ctx context.Context, userID, id string) (*StoredItem, error)
	Create(ctx context.Context, item *StoredItem) error
	Update(ctx context.Context, item *StoredItem) error
	Delete(ctx context.Context, userID, id string) error
}

// UserRepository persists accounts on the server
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// TokenIssuer signs and verifies session tokens
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// TextRecognizer turns an image into raw text
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// ScanCache caches OCR scans by image digest
type ScanCache interface {
	Get(ctx context.Context, key string) (*OCRScan, error)
	Set(ctx context.Context, key string, scan *OCRScan, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
