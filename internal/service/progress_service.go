package service

import (
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"context"
	"errors"
)

// ProgressService 只读查询，所有写入都经过 LedgerService
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	QuizRepo     *repository.QuizRepository
	GameRepo     *repository.GameRepository
	Grantor      *ledger.Grantor
}

func NewProgressService(progressRepo *repository.ProgressRepository, quizRepo *repository.QuizRepository, gameRepo *repository.GameRepository, grantor *ledger.Grantor) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		QuizRepo:     quizRepo,
		GameRepo:     gameRepo,
		Grantor:      grantor,
	}
}

// GetModuleProgress 没有记录时返回全部未完成的零状态
func (s *ProgressService) GetModuleProgress(ctx context.Context, userID, moduleID uint) (*model.LearningProgress, error) {
	progress, err := s.ProgressRepo.FindByUserModule(ctx, userID, moduleID)
	if errors.Is(err, util.ErrRecordNotFound) {
		return &model.LearningProgress{UserID: userID, ModuleID: moduleID}, nil
	}
	return progress, err
}

func (s *ProgressService) GetAllProgress(ctx context.Context, userID uint) ([]model.LearningProgress, error) {
	return s.ProgressRepo.FindAllByUser(ctx, userID, 0)
}

// GetRecentProgress limit <= 0 时使用默认的 5 条
func (s *ProgressService) GetRecentProgress(ctx context.Context, userID uint, limit int) ([]model.LearningProgress, error) {
	if limit <= 0 {
		limit = util.DefaultRecentLimit
	}
	return s.ProgressRepo.FindAllByUser(ctx, userID, limit)
}

func (s *ProgressService) GetQuizResults(ctx context.Context, userID, moduleID uint) ([]model.QuizResult, error) {
	return s.QuizRepo.FindResults(ctx, userID, moduleID)
}

func (s *ProgressService) GetAllQuizResults(ctx context.Context, userID uint) ([]model.QuizResult, error) {
	return s.QuizRepo.FindAllResults(ctx, userID)
}

// GetDashboardStats belajar：阅读和视频都完成的模块；latihan：三个难度都通过的模块；bermain：完成的游戏
func (s *ProgressService) GetDashboardStats(ctx context.Context, userID uint) (*model.DashboardStats, error) {
	learned, err := s.ProgressRepo.CountLearned(ctx, userID)
	if err != nil {
		return nil, err
	}
	practiced, err := s.ProgressRepo.CountPracticed(ctx, userID)
	if err != nil {
		return nil, err
	}
	gameIDs, err := s.GameRepo.FindCompletedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	policy := s.Grantor.Policy()
	played := 0
	for _, id := range gameIDs {
		if _, ok := policy.GameReward(id); ok {
			played++
		}
	}

	return &model.DashboardStats{
		Belajar: model.CategoryStat{Completed: min(int(learned), util.DashboardModuleTotal), Total: util.DashboardModuleTotal},
		Latihan: model.CategoryStat{Completed: min(int(practiced), util.DashboardModuleTotal), Total: util.DashboardModuleTotal},
		Bermain: model.CategoryStat{Completed: min(played, util.DashboardGameTotal), Total: util.DashboardGameTotal},
	}, nil
}
