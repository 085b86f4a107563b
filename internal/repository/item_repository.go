package repository

import (
	"context"

	"gorm.io/gorm"

	"taskpad/internal/model"
)

// ItemRepository defines persistence operations for items. Every lookup
// that mutates or removes an item filters by both owner_id and id; that
// filter is the sole enforcement point for ownership isolation.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Item, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	FindByOwnerAndID(ctx context.Context, ownerID, itemID uint) (*model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, ownerID, itemID uint) error
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository builds a GORM-backed repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) FindByOwnerAndID(ctx context.Context, ownerID, itemID uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, ownerID, itemID uint) error {
	res := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, itemID).Delete(&model.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
