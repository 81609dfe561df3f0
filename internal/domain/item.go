package domain

import "time"

// Storage is where an item is kept
type Storage string

const (
	StorageFridge  Storage = "fridge"
	StorageFreezer Storage = "freezer"
	StoragePantry  Storage = "pantry"
)

// DefaultStorage is used when a form or request leaves storage empty
const DefaultStorage = StorageFridge

// Valid reports whether s is one of the known storage locations
func (s Storage) Valid() bool {
	switch s {
	case StorageFridge, StorageFreezer, StoragePantry:
		return true
	}
	return false
}

// Item represents a perishable item as exchanged with the item collection API
type Item struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Storage    Storage `json:"storage"`
	ExpiryDate Date    `json:"expiry_date"`
	Favorite   bool    `json:"favorite"`
}

// StoredItem is an Item as persisted by the server, with ownership and audit fields
type StoredItem struct {
	Item
	UserID    string
	CreatedAt time.Time
}

// FreshnessStatus is derived from an item's expiry date and the current date.
// It is never stored.
type FreshnessStatus string

const (
	StatusExpired      FreshnessStatus = "EXPIRED"
	StatusExpiringSoon FreshnessStatus = "EXPIRING_SOON"
	StatusSafe         FreshnessStatus = "SAFE"
)

// Label returns the human-readable status label
func (s FreshnessStatus) Label() string {
	switch s {
	case StatusExpired:
		return "EXPIRED"
	case StatusExpiringSoon:
		return "EXPIRING SOON"
	default:
		return "SAFE"
	}
}

// Tab selects which part of the collection the dashboard shows
type Tab string

const (
	TabAll       Tab = "all"
	TabFavorites Tab = "favorites"
	TabAdd       Tab = "add"
)

// ParseTab maps user input to a Tab, accepting the short "fav" alias
func ParseTab(s string) (Tab, error) {
	switch s {
	case "", "all":
		return TabAll, nil
	case "favorites", "fav":
		return TabFavorites, nil
	case "add":
		return TabAdd, nil
	}
	return "", ErrInvalidTab
}

// FormState is the editable add-item form
type FormState struct {
	Name       string
	Storage    Storage
	ExpiryDate Date
}

// NewFormState returns an empty form with the default storage selected
func NewFormState() FormState {
	return FormState{Storage: DefaultStorage}
}

// Complete reports whether the form carries everything needed to create an item
func (f FormState) Complete() bool {
	return f.Name != "" && !f.ExpiryDate.IsZero()
}

// CreateItemRequest is the payload for creating an item
type CreateItemRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Storage    Storage `json:"storage" validate:"omitempty,oneof=fridge freezer pantry"`
	ExpiryDate Date    `json:"expiry_date"`
}

// UpdateItemRequest is the payload for PUT /items/{id}; only the name is editable
type UpdateItemRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
}

// FavoriteUpdate is the payload for PATCH /items/{id}/favorite
type FavoriteUpdate struct {
	Favorite *bool `json:"favorite" binding:"required"`
}
