package repository

import (
	"aksara_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// LedgerStore 进度账本所需的存储操作。Atomically 内的所有操作要么全部生效，要么全部回滚。
type LedgerStore interface {
	// ReadActivity 记录不存在时返回 util.ErrRecordNotFound
	ReadActivity(ctx context.Context, userID, moduleID uint) (*model.LearningProgress, error)
	UpsertActivity(ctx context.Context, progress *model.LearningProgress) error
	ReadBalance(ctx context.Context, userID uint) (int, error)
	IncrementBalance(ctx context.Context, userID uint, delta int) error
	UpsertQuizAttempt(ctx context.Context, result *model.QuizResult) error
	ReadGameCompletion(ctx context.Context, userID uint, gameID string) (bool, error)
	// InsertGameCompletion 已存在时返回 util.ErrAlreadyCompleted
	InsertGameCompletion(ctx context.Context, userID uint, gameID string) error
	Atomically(ctx context.Context, fn func(store LedgerStore) error) error
}

// GormLedgerStore 基于 gorm 的实现，事务内读取进度时加行锁
type GormLedgerStore struct {
	DB       *gorm.DB
	users    *UserRepository
	progress *ProgressRepository
	quizzes  *QuizRepository
	games    *GameRepository
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{
		DB:       db,
		users:    NewUserRepository(db),
		progress: NewProgressRepository(db),
		quizzes:  NewQuizRepository(db),
		games:    NewGameRepository(db),
	}
}

func (s *GormLedgerStore) ReadActivity(ctx context.Context, userID, moduleID uint) (*model.LearningProgress, error) {
	return s.progress.FindForUpdate(ctx, userID, moduleID)
}

func (s *GormLedgerStore) UpsertActivity(ctx context.Context, progress *model.LearningProgress) error {
	return s.progress.Upsert(ctx, progress)
}

func (s *GormLedgerStore) ReadBalance(ctx context.Context, userID uint) (int, error) {
	return s.users.GetTinta(ctx, userID)
}

func (s *GormLedgerStore) IncrementBalance(ctx context.Context, userID uint, delta int) error {
	return s.users.IncrementTinta(ctx, userID, delta)
}

func (s *GormLedgerStore) UpsertQuizAttempt(ctx context.Context, result *model.QuizResult) error {
	return s.quizzes.UpsertResult(ctx, result)
}

func (s *GormLedgerStore) ReadGameCompletion(ctx context.Context, userID uint, gameID string) (bool, error) {
	return s.games.Exists(ctx, userID, gameID)
}

func (s *GormLedgerStore) InsertGameCompletion(ctx context.Context, userID uint, gameID string) error {
	return s.games.Insert(ctx, userID, gameID)
}

func (s *GormLedgerStore) Atomically(ctx context.Context, fn func(store LedgerStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormLedgerStore{
			DB:       tx,
			users:    s.users.WithTx(tx),
			progress: s.progress.WithTx(tx),
			quizzes:  s.quizzes.WithTx(tx),
			games:    s.games.WithTx(tx),
		})
	})
}
