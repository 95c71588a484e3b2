package service

import (
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"context"
	"strings"
)

type ModuleService struct {
	ModuleRepo   *repository.ModuleRepository
	ProgressRepo *repository.ProgressRepository
}

func NewModuleService(moduleRepo *repository.ModuleRepository, progressRepo *repository.ProgressRepository) *ModuleService {
	return &ModuleService{
		ModuleRepo:   moduleRepo,
		ProgressRepo: progressRepo,
	}
}

// ListModules 按模块编号排序，附带当前用户的进度百分比（没有记录为 0）
func (s *ModuleService) ListModules(ctx context.Context, userID uint) ([]model.ModuleWithProgress, error) {
	modules, err := s.ModuleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	percent, err := s.ProgressRepo.PercentByModule(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := make([]model.ModuleWithProgress, 0, len(modules))
	for _, m := range modules {
		list = append(list, model.ModuleWithProgress{
			Module:   m,
			Progress: percent[m.ID],
		})
	}
	return list, nil
}

func (s *ModuleService) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	return s.ModuleRepo.FindByID(ctx, id)
}

func (s *ModuleService) GetModuleBySlug(ctx context.Context, slug string) (*model.Module, error) {
	return s.ModuleRepo.FindBySlug(ctx, strings.TrimSpace(slug))
}

func (s *ModuleService) GetModuleContents(ctx context.Context, id uint) ([]model.ModuleContent, error) {
	if _, err := s.ModuleRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.ModuleRepo.FindContents(ctx, id)
}

// GetQuizQuestions 返回的题目不包含正确答案
func (s *ModuleService) GetQuizQuestions(ctx context.Context, moduleID uint, difficulty string) ([]model.QuizQuestion, error) {
	diff, err := ledger.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if _, err := s.ModuleRepo.FindByID(ctx, moduleID); err != nil {
		return nil, err
	}

	questions, err := s.ModuleRepo.FindQuestions(ctx, moduleID, string(diff))
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuizNotFound
	}
	return questions, nil
}
