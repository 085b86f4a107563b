package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "taskpad/internal/errors"
	"taskpad/internal/model"
	"taskpad/internal/repository"
)

// ItemService exposes item operations scoped to an owning user.
type ItemService interface {
	Create(ctx context.Context, ownerID uint, title, description string) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Item, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	MarkCompleted(ctx context.Context, ownerID, itemID uint) (*model.Item, error)
	Delete(ctx context.Context, ownerID, itemID uint) error
}

type itemService struct {
	items repository.ItemRepository
}

// NewItemService builds an ItemService backed by the item repository.
func NewItemService(items repository.ItemRepository) ItemService {
	return &itemService{items: items}
}

func (s *itemService) Create(ctx context.Context, ownerID uint, title, description string) (*model.Item, error) {
	item := &model.Item{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) ListByOwner(ctx context.Context, ownerID uint) ([]model.Item, error) {
	return s.items.ListByOwner(ctx, ownerID)
}

func (s *itemService) ListAll(ctx context.Context) ([]model.Item, error) {
	return s.items.ListAll(ctx)
}

// MarkCompleted flips the completed flag on the caller's item. An id that
// exists under another owner is a miss, never a mutation.
func (s *itemService) MarkCompleted(ctx context.Context, ownerID, itemID uint) (*model.Item, error) {
	item, err := s.items.FindByOwnerAndID(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, err
	}

	item.Completed = true
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the caller's item, reporting a miss rather than a silent no-op.
func (s *itemService) Delete(ctx context.Context, ownerID, itemID uint) error {
	if err := s.items.Delete(ctx, ownerID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrItemNotFound
		}
		return err
	}
	return nil
}
