package service

import (
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"aksara_backend/pkg/logger"
	"aksara_backend/pkg/monitoring"
	"aksara_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ModuleReader 账本只需要确认模块存在并读取答案
type ModuleReader interface {
	FindByID(ctx context.Context, id uint) (*model.Module, error)
	FindQuestions(ctx context.Context, moduleID uint, difficulty string) ([]model.QuizQuestion, error)
}

// BalanceObserver 事务提交后接收用户的最新余额
type BalanceObserver interface {
	BalanceChanged(ctx context.Context, userID uint, tinta int)
}

// LedgerResult 所有账本操作的统一返回，错误不会以 error 的形式离开 LedgerService
type LedgerResult struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error,omitempty"`
	AlreadyCompleted bool             `json:"alreadyCompleted,omitempty"`
	TintaEarned      int              `json:"tintaEarned"`
	Tinta            int              `json:"tinta"`
	Progress         *ledger.Progress `json:"progress,omitempty"`
	Passed           bool             `json:"passed,omitempty"`

	// 仅测验：correctAnswers / wrongAnswers / totalQuestions / score
	*ledger.Grade

	// Err 供控制器决定 HTTP 状态码
	Err error `json:"-"`
}

type QuizSubmission struct {
	// Answers 题目位置（从 0 开始）-> 选择的选项
	Answers map[int]string `json:"answers" binding:"required"`
}

type LedgerService struct {
	Store    repository.LedgerStore
	Modules  ModuleReader
	Grantor  *ledger.Grantor
	Observer BalanceObserver
}

func NewLedgerService(store repository.LedgerStore, modules ModuleReader, grantor *ledger.Grantor, observer BalanceObserver) *LedgerService {
	return &LedgerService{
		Store:    store,
		Modules:  modules,
		Grantor:  grantor,
		Observer: observer,
	}
}

// MarkModuleRead 阅读完模块：首次 +500
func (s *LedgerService) MarkModuleRead(ctx context.Context, userID, moduleID uint) *LedgerResult {
	return s.completeActivity(ctx, "MarkModuleRead", userID, moduleID, ledger.ModuleRead, ledger.KindModuleRead)
}

// FinishVideo 看完视频：首次按策略发放（默认 750）
func (s *LedgerService) FinishVideo(ctx context.Context, userID, moduleID uint) *LedgerResult {
	return s.completeActivity(ctx, "FinishVideo", userID, moduleID, ledger.VideoWatched, ledger.KindVideo)
}

func (s *LedgerService) completeActivity(ctx context.Context, op string, userID, moduleID uint, activity ledger.Activity, kind ledger.Kind) *LedgerResult {
	ctx, span := tracing.Tracer.Start(ctx, "ledger."+op)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("module.id", int64(moduleID)),
	)

	if userID == 0 {
		return s.fail(ctx, op, util.ErrNotAuthenticated)
	}
	if _, err := s.Modules.FindByID(ctx, moduleID); err != nil {
		return s.fail(ctx, op, wrapStore(err))
	}

	result := &LedgerResult{Success: true}
	err := s.Store.Atomically(ctx, func(store repository.LedgerStore) error {
		prev, err := readFlags(ctx, store, userID, moduleID)
		if err != nil {
			return err
		}

		next, changed := prev.Complete(activity)
		progress := ledger.ComputeProgress(next)
		result.Progress = &progress
		if !changed {
			return s.readBalance(ctx, store, userID, result)
		}

		if err := store.UpsertActivity(ctx, toRecord(userID, moduleID, next)); err != nil {
			return wrapStore(err)
		}

		result.TintaEarned = s.Grantor.GrantIfNewly(kind, prev, next, ledger.Context{})
		if err := store.IncrementBalance(ctx, userID, result.TintaEarned); err != nil {
			return wrapStore(err)
		}
		return s.readBalance(ctx, store, userID, result)
	})
	if err != nil {
		return s.fail(ctx, op, err)
	}

	s.committed(ctx, op, string(kind), userID, result)
	return result
}

// SubmitQuiz 评分、覆盖保存本次结果、按答对题数发放 tinta；分数达到阈值时首次翻转该难度的完成标记
func (s *LedgerService) SubmitQuiz(ctx context.Context, userID, moduleID uint, difficulty string, submission QuizSubmission) *LedgerResult {
	const op = "SubmitQuiz"
	ctx, span := tracing.Tracer.Start(ctx, "ledger."+op)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("module.id", int64(moduleID)),
		attribute.String("quiz.difficulty", difficulty),
	)

	if userID == 0 {
		return s.fail(ctx, op, util.ErrNotAuthenticated)
	}
	diff, err := ledger.ParseDifficulty(difficulty)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if _, err := s.Modules.FindByID(ctx, moduleID); err != nil {
		return s.fail(ctx, op, wrapStore(err))
	}

	questions, err := s.Modules.FindQuestions(ctx, moduleID, string(diff))
	if err != nil {
		return s.fail(ctx, op, wrapStore(err))
	}
	if len(questions) == 0 {
		return s.fail(ctx, op, util.ErrQuizNotFound)
	}

	grade := ledger.GradeQuiz(submission.Answers, answerKey(questions))
	policy := s.Grantor.Policy()
	result := &LedgerResult{
		Success: true,
		Grade:   &grade,
		Passed:  policy.Passed(grade.ScorePercent),
	}

	err = s.Store.Atomically(ctx, func(store repository.LedgerStore) error {
		attempt := &model.QuizResult{
			UserID:         userID,
			ModuleID:       moduleID,
			Difficulty:     string(diff),
			Score:          grade.ScorePercent,
			CorrectAnswers: grade.Correct,
			WrongAnswers:   grade.Wrong,
			TotalQuestions: grade.Total,
			CompletedAt:    time.Now(),
		}
		if err := store.UpsertQuizAttempt(ctx, attempt); err != nil {
			return wrapStore(err)
		}

		prev, err := readFlags(ctx, store, userID, moduleID)
		if err != nil {
			return err
		}

		next := prev
		if result.Passed {
			var changed bool
			if next, changed = prev.Complete(diff.Activity()); changed {
				if err := store.UpsertActivity(ctx, toRecord(userID, moduleID, next)); err != nil {
					return wrapStore(err)
				}
			}
		}
		progress := ledger.ComputeProgress(next)
		result.Progress = &progress

		result.TintaEarned = s.Grantor.GrantIfNewly(ledger.KindQuiz, prev, next, ledger.Context{
			Difficulty:   diff,
			CorrectCount: grade.Correct,
		})
		if err := store.IncrementBalance(ctx, userID, result.TintaEarned); err != nil {
			return wrapStore(err)
		}
		return s.readBalance(ctx, store, userID, result)
	})
	if err != nil {
		return s.fail(ctx, op, err)
	}

	s.committed(ctx, op, string(ledger.KindQuiz), userID, result)
	return result
}

// CompleteGame 每个游戏每个用户只奖励一次，再次完成返回 AlreadyCompleted（视为成功但无奖励）
func (s *LedgerService) CompleteGame(ctx context.Context, userID uint, gameID string) *LedgerResult {
	const op = "CompleteGame"
	ctx, span := tracing.Tracer.Start(ctx, "ledger."+op)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.String("game.id", gameID),
	)

	if userID == 0 {
		return s.fail(ctx, op, util.ErrNotAuthenticated)
	}
	if _, ok := s.Grantor.Policy().GameReward(gameID); !ok {
		return s.fail(ctx, op, util.ErrUnknownGame)
	}

	result := &LedgerResult{Success: true}
	err := s.Store.Atomically(ctx, func(store repository.LedgerStore) error {
		exists, err := store.ReadGameCompletion(ctx, userID, gameID)
		if err != nil {
			return wrapStore(err)
		}
		if exists {
			return util.ErrAlreadyCompleted
		}
		if err := store.InsertGameCompletion(ctx, userID, gameID); err != nil {
			if errors.Is(err, util.ErrAlreadyCompleted) {
				return err
			}
			return wrapStore(err)
		}

		result.TintaEarned = s.Grantor.GrantIfNewly(ledger.KindGame, ledger.Flags{}, ledger.Flags{}, ledger.Context{
			GameID:          gameID,
			FirstCompletion: true,
		})
		if err := store.IncrementBalance(ctx, userID, result.TintaEarned); err != nil {
			return wrapStore(err)
		}
		return s.readBalance(ctx, store, userID, result)
	})
	if errors.Is(err, util.ErrAlreadyCompleted) {
		monitoring.LedgerOperations.WithLabelValues(op, "already_completed").Inc()
		logger.Log.Info("game already completed", zap.Uint("userID", userID), zap.String("gameID", gameID))
		done := &LedgerResult{
			Success:          false,
			Error:            "Already completed",
			AlreadyCompleted: true,
			Err:              util.ErrAlreadyCompleted,
		}
		if err := s.readBalance(ctx, s.Store, userID, done); err != nil {
			return s.fail(ctx, op, err)
		}
		return done
	}
	if err != nil {
		return s.fail(ctx, op, err)
	}

	s.committed(ctx, op, string(ledger.KindGame), userID, result)
	return result
}

func (s *LedgerService) readBalance(ctx context.Context, store repository.LedgerStore, userID uint, result *LedgerResult) error {
	tinta, err := store.ReadBalance(ctx, userID)
	if err != nil {
		return wrapStore(err)
	}
	result.Tinta = tinta
	return nil
}

func (s *LedgerService) committed(ctx context.Context, op, kind string, userID uint, result *LedgerResult) {
	monitoring.LedgerOperations.WithLabelValues(op, "success").Inc()
	if result.TintaEarned > 0 {
		monitoring.TintaGranted.WithLabelValues(kind).Add(float64(result.TintaEarned))
		if s.Observer != nil {
			s.Observer.BalanceChanged(ctx, userID, result.Tinta)
		}
	}
	logger.Log.Info("ledger operation committed",
		zap.String("op", op),
		zap.Uint("userID", userID),
		zap.Int("tintaEarned", result.TintaEarned),
		zap.Int("tinta", result.Tinta),
	)
}

// fail 把错误转换为 {success:false, error}，存储错误只返回通用信息
func (s *LedgerService) fail(ctx context.Context, op string, err error) *LedgerResult {
	outcome := "rejected"
	message := err.Error()
	switch {
	case errors.Is(err, util.ErrNotAuthenticated):
		message = "User not authenticated"
	case errors.Is(err, util.ErrStoreFailure):
		outcome = "store_failure"
		message = "Failed to update progress"
		if op == "SubmitQuiz" {
			message = "Failed to submit quiz"
		}
		logger.Log.Error("ledger operation failed", zap.String("op", op), zap.Error(err))
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	monitoring.LedgerOperations.WithLabelValues(op, outcome).Inc()

	return &LedgerResult{Success: false, Error: message, Err: err}
}

func readFlags(ctx context.Context, store repository.LedgerStore, userID, moduleID uint) (ledger.Flags, error) {
	record, err := store.ReadActivity(ctx, userID, moduleID)
	if errors.Is(err, util.ErrRecordNotFound) {
		return ledger.Flags{}, nil
	}
	if err != nil {
		return ledger.Flags{}, wrapStore(err)
	}
	return fromRecord(record), nil
}

func fromRecord(p *model.LearningProgress) ledger.Flags {
	var done []ledger.Activity
	if p.ModuleViewed {
		done = append(done, ledger.ModuleRead)
	}
	if p.VideoViewed {
		done = append(done, ledger.VideoWatched)
	}
	if p.EasyCompleted {
		done = append(done, ledger.EasyQuiz)
	}
	if p.MediumCompleted {
		done = append(done, ledger.MediumQuiz)
	}
	if p.HardCompleted {
		done = append(done, ledger.HardQuiz)
	}
	return ledger.NewFlags(done...)
}

func toRecord(userID, moduleID uint, f ledger.Flags) *model.LearningProgress {
	progress := ledger.ComputeProgress(f)
	return &model.LearningProgress{
		UserID:          userID,
		ModuleID:        moduleID,
		Progress:        progress.Percentage,
		ModuleViewed:    f.Done(ledger.ModuleRead),
		VideoViewed:     f.Done(ledger.VideoWatched),
		EasyCompleted:   f.Done(ledger.EasyQuiz),
		MediumCompleted: f.Done(ledger.MediumQuiz),
		HardCompleted:   f.Done(ledger.HardQuiz),
		Completed:       progress.FullyComplete,
	}
}

func answerKey(questions []model.QuizQuestion) []ledger.AnswerKey {
	key := make([]ledger.AnswerKey, len(questions))
	for i, q := range questions {
		key[i] = ledger.AnswerKey{QuestionIndex: i, CorrectOption: q.CorrectAnswer}
	}
	return key
}

// wrapStore 模块不存在原样返回，身份已失效（用户不存在）按未登录处理，其余归为存储错误
func wrapStore(err error) error {
	switch {
	case err == nil, errors.Is(err, util.ErrStoreFailure), errors.Is(err, util.ErrModuleNotFound):
		return err
	case errors.Is(err, util.ErrUserNotFound):
		return util.ErrNotAuthenticated
	}
	return fmt.Errorf("%w: %v", util.ErrStoreFailure, err)
}
