package repository

import (
	"aksara_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: tx}
}

// UpsertResult 每次提交覆盖同一 (用户, 模块, 难度) 的结果
func (r *QuizRepository) UpsertResult(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "module_id"}, {Name: "difficulty"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score",
			"correct_answers",
			"wrong_answers",
			"total_questions",
			"completed_at",
			"updated_at",
		}),
	}).Create(result).Error
}

func (r *QuizRepository) FindResults(ctx context.Context, userID, moduleID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

func (r *QuizRepository) FindAllResults(ctx context.Context, userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Preload("Module").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}
