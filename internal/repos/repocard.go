package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

type RepoCardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, card *types.RepoCard) (*types.RepoCard, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RepoCard, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.RepoCard, error)
	ListByTag(ctx context.Context, tx *gorm.DB, tag string) ([]*types.RepoCard, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type repoCardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepoCardRepo(db *gorm.DB, baseLog *logger.Logger) RepoCardRepo {
	return &repoCardRepo{db: db, log: baseLog.With("repo", "RepoCardRepo")}
}

func (r *repoCardRepo) Create(ctx context.Context, tx *gorm.DB, card *types.RepoCard) (*types.RepoCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func (r *repoCardRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RepoCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var card types.RepoCard
	if err := transaction.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *repoCardRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.RepoCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.RepoCard
	if err := transaction.WithContext(ctx).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repoCardRepo) ListByTag(ctx context.Context, tx *gorm.DB, tag string) ([]*types.RepoCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.RepoCard
	if err := transaction.WithContext(ctx).
		Where("tag = ?", tag).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repoCardRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.RepoCard{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
