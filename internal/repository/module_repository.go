package repository

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) FindAll(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.WithContext(ctx).Order("module_number ASC").Order("id ASC").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.WithContext(ctx).First(&module, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	return &module, err
}

func (r *ModuleRepository) FindBySlug(ctx context.Context, slug string) (*model.Module, error) {
	var module model.Module
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	return &module, err
}

func (r *ModuleRepository) FindContents(ctx context.Context, moduleID uint) ([]model.ModuleContent, error) {
	var contents []model.ModuleContent
	err := r.DB.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("`order` ASC").
		Order("id ASC").
		Find(&contents).Error
	return contents, err
}

// FindQuestions 按题号升序，题目位置即评分时的 QuestionIndex
func (r *ModuleRepository) FindQuestions(ctx context.Context, moduleID uint, difficulty string) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.WithContext(ctx).
		Where("module_id = ? AND difficulty = ?", moduleID, difficulty).
		Order("question_number ASC").
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}
