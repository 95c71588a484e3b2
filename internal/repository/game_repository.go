package repository

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) WithTx(tx *gorm.DB) *GameRepository {
	return &GameRepository{DB: tx}
}

func (r *GameRepository) Exists(ctx context.Context, userID uint, gameID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.GameProgress{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	return count > 0, err
}

// Insert 唯一索引冲突时返回 util.ErrAlreadyCompleted
func (r *GameRepository) Insert(ctx context.Context, userID uint, gameID string) error {
	record := &model.GameProgress{
		UserID:      userID,
		GameID:      gameID,
		Completed:   true,
		CompletedAt: time.Now(),
	}
	err := r.DB.WithContext(ctx).Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrAlreadyCompleted
	}
	return err
}

func (r *GameRepository) FindCompletedIDs(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.GameProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Pluck("game_id", &ids).Error
	return ids, err
}
