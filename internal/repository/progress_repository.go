package repository

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// FindByUserModule 不存在时返回 util.ErrRecordNotFound
func (r *ProgressRepository) FindByUserModule(ctx context.Context, userID, moduleID uint) (*model.LearningProgress, error) {
	var progress model.LearningProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRecordNotFound
	}
	return &progress, err
}

// FindForUpdate 在事务中读取并锁定该行（SQLite 下锁子句被忽略，由数据库级写锁保证串行）
func (r *ProgressRepository) FindForUpdate(ctx context.Context, userID, moduleID uint) (*model.LearningProgress, error) {
	var progress model.LearningProgress
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRecordNotFound
	}
	return &progress, err
}

// Upsert 以 (user_id, module_id) 为键插入或覆盖标记与百分比
func (r *ProgressRepository) Upsert(ctx context.Context, progress *model.LearningProgress) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress",
			"module_viewed",
			"video_viewed",
			"easy_completed",
			"medium_completed",
			"hard_completed",
			"completed",
			"updated_at",
		}),
	}).Create(progress).Error
}

// FindAllByUser 按最近更新排序，limit <= 0 表示不限制
func (r *ProgressRepository) FindAllByUser(ctx context.Context, userID uint, limit int) ([]model.LearningProgress, error) {
	var list []model.LearningProgress
	q := r.DB.WithContext(ctx).
		Preload("Module").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

// PercentByModule module_id -> progress
func (r *ProgressRepository) PercentByModule(ctx context.Context, userID uint) (map[uint]int, error) {
	var rows []model.LearningProgress
	err := r.DB.WithContext(ctx).
		Select("module_id", "progress").
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]int, len(rows))
	for _, row := range rows {
		result[row.ModuleID] = row.Progress
	}
	return result, nil
}

// CountLearned 阅读与视频都已完成的模块数
func (r *ProgressRepository) CountLearned(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.LearningProgress{}).
		Where("user_id = ? AND module_viewed = ? AND video_viewed = ?", userID, true, true).
		Count(&count).Error
	return count, err
}

// CountPracticed 三个难度测验都已通过的模块数
func (r *ProgressRepository) CountPracticed(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.LearningProgress{}).
		Where("user_id = ? AND easy_completed = ? AND medium_completed = ? AND hard_completed = ?", userID, true, true, true).
		Count(&count).Error
	return count, err
}
