package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// ItemService is the server-side item collection, scoped per user
type ItemService struct {
	repo     domain.ItemRepository
	validate *validator.Validate
}

// NewItemService creates a new item service with dependencies
func NewItemService(repo domain.ItemRepository) *ItemService {
	return &ItemService{
		repo:     repo,
		validate: validator.New(),
	}
}

// List returns every item the user owns
func (s *ItemService) List(ctx context.Context, userID string) ([]domain.Item, error) {
	stored, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(stored))
	for _, si := range stored {
		items = append(items, si.Item)
	}
	return items, nil
}

// Create validates and stores a new item for the user
func (s *ItemService) Create(ctx context.Context, userID string, req domain.CreateItemRequest) (*domain.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError(err)
	}
	if req.ExpiryDate.IsZero() {
		return nil, &ValidationError{Messages: []string{"expiry_date is required"}}
	}
	if req.Storage == "" {
		req.Storage = domain.DefaultStorage
	}

	item := &domain.StoredItem{
		Item: domain.Item{
			ID:         uuid.NewString(),
			Name:       req.Name,
			Storage:    req.Storage,
			ExpiryDate: req.ExpiryDate,
		},
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return &item.Item, nil
}

// Update applies a partial update; only the name can change
func (s *ItemService) Update(ctx context.Context, userID, id string, req domain.UpdateItemRequest) (*domain.Item, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError(err)
	}

	item, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return &item.Item, nil
}

// Delete removes one of the user's items
func (s *ItemService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}

// SetFavorite sets the favorite flag and returns the stored item
func (s *ItemService) SetFavorite(ctx context.Context, userID, id string, favorite bool) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	item.Favorite = favorite
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return &item.Item, nil
}
