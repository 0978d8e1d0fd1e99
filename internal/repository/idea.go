package repository

import (
	"context"
	"errors"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PublicIdeaFilter struct {
	Category string
	Offset   int
	Limit    int
}

type IdeaRepository interface {
	Create(ctx context.Context, data *entity.Idea) error
	GetByID(ctx context.Context, id string) (*entity.Idea, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Idea, error)
	GetListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]entity.Idea, error)
	GetPublicList(ctx context.Context, filter PublicIdeaFilter) ([]entity.Idea, error)
	UpdateVisibility(ctx context.Context, id string, isPublic bool) error
	ToggleVisibility(ctx context.Context, id string) error
	SetChainStopped(ctx context.Context, id string) error
	UpdateAttachments(ctx context.Context, id string, refs []string) error
	IncreaseViews(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ideaRepository struct{}

func NewIdeaRepository() *ideaRepository {
	return &ideaRepository{}
}

func (r *ideaRepository) Create(ctx context.Context, data *entity.Idea) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *ideaRepository) GetByID(ctx context.Context, id string) (*entity.Idea, error) {
	var result entity.Idea
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ideaRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Idea, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Idea
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ideaRepository) GetListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]entity.Idea, error) {
	var result []entity.Idea
	err := xcontext.DB(ctx).
		Where("owner_id=?", ownerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ideaRepository) GetPublicList(ctx context.Context, filter PublicIdeaFilter) ([]entity.Idea, error) {
	var result []entity.Idea
	tx := xcontext.DB(ctx).
		Where("is_public=?", true).
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit)

	if filter.Category != "" {
		tx = tx.Where("category=?", filter.Category)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ideaRepository) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	return r.updateOne(ctx, id, map[string]any{"is_public": isPublic})
}

func (r *ideaRepository) ToggleVisibility(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, map[string]any{"is_public": gorm.Expr("NOT is_public")})
}

// SetChainStopped has no way back, there is no method to clear the flag.
func (r *ideaRepository) SetChainStopped(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, map[string]any{"chain_stopped": true})
}

func (r *ideaRepository) UpdateAttachments(ctx context.Context, id string, refs []string) error {
	return r.updateOne(ctx, id, map[string]any{"attachment_refs": entity.Array[string](refs)})
}

func (r *ideaRepository) IncreaseViews(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Idea{}).
		Where("id=?", id).
		UpdateColumn("view_count", gorm.Expr("view_count+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ideaRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Idea{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ideaRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.Idea{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

// updateOne does not check the affected rows, mysql reports zero when the
// values are unchanged. Callers load the idea before updating it.
func (r *ideaRepository) updateOne(ctx context.Context, id string, data map[string]any) error {
	return xcontext.DB(ctx).
		Model(&entity.Idea{}).
		Where("id=?", id).
		Updates(data).Error
}
