package service

import (
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/testutil"
	"aksara_backend/internal/util"
	"aksara_backend/pkg/database"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls map[uint]int
}

func (o *recordingObserver) BalanceChanged(ctx context.Context, userID uint, tinta int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = make(map[uint]int)
	}
	o.calls[userID] = tinta
}

type ledgerFixture struct {
	db       *gorm.DB
	svc      *LedgerService
	observer *recordingObserver
	user     *model.User
	module   *model.Module
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	db := testutil.DB(t)
	observer := &recordingObserver{}
	svc := NewLedgerService(
		repository.NewGormLedgerStore(db),
		repository.NewModuleRepository(db),
		ledger.NewGrantor(ledger.DefaultPolicy()),
		observer,
	)
	return &ledgerFixture{
		db:       db,
		svc:      svc,
		observer: observer,
		user:     testutil.SeedUser(t, db, "siti@example.com", 0),
		module:   testutil.SeedModule(t, db, 1),
	}
}

func (f *ledgerFixture) tinta(t *testing.T) int {
	t.Helper()
	tinta, err := repository.NewUserRepository(f.db).GetTinta(context.Background(), f.user.ID)
	require.NoError(t, err)
	return tinta
}

func (f *ledgerFixture) progress(t *testing.T) *model.LearningProgress {
	t.Helper()
	p, err := repository.NewProgressRepository(f.db).FindByUserModule(context.Background(), f.user.ID, f.module.ID)
	if errors.Is(err, util.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return p
}

// answers 返回前 correct 题答对、其余答错的答案
func answers(total, correct int) map[int]string {
	m := make(map[int]string, total)
	for i := 0; i < total; i++ {
		if i < correct {
			m[i] = "A"
		} else {
			m[i] = "B"
		}
	}
	return m
}

func tenAs() []string {
	return []string{"A", "A", "A", "A", "A", "A", "A", "A", "A", "A"}
}

func TestMarkModuleRead(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res := f.svc.MarkModuleRead(ctx, f.user.ID, f.module.ID)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 500, res.TintaEarned)
	assert.Equal(t, 500, res.Tinta)
	require.NotNil(t, res.Progress)
	assert.Equal(t, 20, res.Progress.Percentage)
	assert.False(t, res.Progress.FullyComplete)
	assert.Equal(t, 500, f.observer.calls[f.user.ID])

	p := f.progress(t)
	require.NotNil(t, p)
	assert.True(t, p.ModuleViewed)
	assert.Equal(t, 20, p.Progress)

	// 再次阅读不会重复发放
	again := f.svc.MarkModuleRead(ctx, f.user.ID, f.module.ID)
	require.True(t, again.Success)
	assert.Zero(t, again.TintaEarned)
	assert.Equal(t, 500, again.Tinta)
	assert.Equal(t, 500, f.tinta(t))
}

func TestFinishVideoUsesPolicy(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res := f.svc.FinishVideo(ctx, f.user.ID, f.module.ID)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 750, res.TintaEarned)

	f.svc.Grantor.SetPolicy(ledger.FlatPolicy())
	other := testutil.SeedModule(t, f.db, 2)
	res = f.svc.FinishVideo(ctx, f.user.ID, other.ID)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 500, res.TintaEarned)
	assert.Equal(t, 1250, f.tinta(t))
}

func TestSubmitQuizPassThenResubmit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	testutil.SeedQuestions(t, f.db, f.module.ID, "easy", tenAs()...)

	res := f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, "easy", QuizSubmission{Answers: answers(10, 8)})
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Grade)
	assert.Equal(t, 80, res.ScorePercent)
	assert.Equal(t, 8, res.Correct)
	assert.Equal(t, 2, res.Wrong)
	assert.True(t, res.Passed)
	assert.Equal(t, 800, res.TintaEarned)
	assert.Equal(t, 20, res.Progress.Percentage)

	p := f.progress(t)
	require.NotNil(t, p)
	assert.True(t, p.EasyCompleted)

	// 再次提交：按答对题数继续发放，标记保持完成
	res = f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, "easy", QuizSubmission{Answers: answers(10, 3)})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 30, res.ScorePercent)
	assert.False(t, res.Passed)
	assert.Equal(t, 300, res.TintaEarned)
	assert.Equal(t, 1100, res.Tinta)
	assert.True(t, f.progress(t).EasyCompleted)

	results, err := repository.NewQuizRepository(f.db).FindResults(ctx, f.user.ID, f.module.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 30, results[0].Score)
}

func TestSubmitQuizFailedDoesNotCreateProgress(t *testing.T) {
	f := newLedgerFixture(t)
	testutil.SeedQuestions(t, f.db, f.module.ID, "hard", "A", "B", "C", "D", "A")

	// 缺少的答案按答错处理
	res := f.svc.SubmitQuiz(context.Background(), f.user.ID, f.module.ID, "sulit", QuizSubmission{Answers: map[int]string{0: "A", 1: "B"}})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 40, res.ScorePercent)
	assert.Equal(t, 3, res.Wrong)
	assert.False(t, res.Passed)
	assert.Equal(t, 400, res.TintaEarned)
	assert.Zero(t, res.Progress.Percentage)

	assert.Nil(t, f.progress(t))
}

func TestSubmitQuizAllDifficultiesCompletesModule(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	for _, d := range []string{"easy", "medium", "hard"} {
		testutil.SeedQuestions(t, f.db, f.module.ID, d, "A", "A")
	}

	require.True(t, f.svc.MarkModuleRead(ctx, f.user.ID, f.module.ID).Success)
	require.True(t, f.svc.FinishVideo(ctx, f.user.ID, f.module.ID).Success)
	for _, d := range []string{"easy", "medium"} {
		require.True(t, f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, d, QuizSubmission{Answers: answers(2, 2)}).Success)
	}
	res := f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, "hard", QuizSubmission{Answers: answers(2, 2)})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 100, res.Progress.Percentage)
	assert.True(t, res.Progress.FullyComplete)

	p := f.progress(t)
	assert.True(t, p.Completed)
	// 500 + 750 + 2*100 + 2*150 + 2*200
	assert.Equal(t, 2150, f.tinta(t))
}

func TestSubmitQuizValidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res := f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, "expert", QuizSubmission{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ledger.ErrUnknownDifficulty)

	res = f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, "easy", QuizSubmission{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, util.ErrQuizNotFound)

	res = f.svc.SubmitQuiz(ctx, f.user.ID, 999, "easy", QuizSubmission{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, util.ErrModuleNotFound)
}

func TestCompleteGameOnce(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res := f.svc.CompleteGame(ctx, f.user.ID, ledger.GameCrossword)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 6000, res.TintaEarned)
	assert.Equal(t, 6000, res.Tinta)

	again := f.svc.CompleteGame(ctx, f.user.ID, ledger.GameCrossword)
	assert.False(t, again.Success)
	assert.True(t, again.AlreadyCompleted)
	assert.Equal(t, "Already completed", again.Error)
	assert.ErrorIs(t, again.Err, util.ErrAlreadyCompleted)
	assert.Equal(t, 0, again.TintaEarned)
	assert.Equal(t, 6000, again.Tinta, "repeat completion reports the current balance")
	assert.Equal(t, 6000, f.tinta(t))

	res = f.svc.CompleteGame(ctx, f.user.ID, ledger.GameDragDrop)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 15000, res.Tinta)
}

func TestSeededQuizIsPlayable(t *testing.T) {
	db := testutil.DB(t)
	require.NoError(t, database.Seed(db))
	require.NoError(t, database.Seed(db))

	var modules, contents, questions int64
	require.NoError(t, db.Model(&model.Module{}).Count(&modules).Error)
	require.NoError(t, db.Model(&model.ModuleContent{}).Count(&contents).Error)
	require.NoError(t, db.Model(&model.QuizQuestion{}).Count(&questions).Error)
	assert.Equal(t, int64(3), modules)
	assert.Equal(t, int64(7), contents)
	assert.Equal(t, int64(36), questions)

	moduleRepo := repository.NewModuleRepository(db)
	all, err := moduleRepo.FindAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, all)
	first := all[0]

	key, err := moduleRepo.FindQuestions(context.Background(), first.ID, "easy")
	require.NoError(t, err)
	require.Len(t, key, 4)
	submitted := make(map[int]string, len(key))
	for i, q := range key {
		submitted[i] = q.CorrectAnswer
	}

	user := testutil.SeedUser(t, db, "seed@example.com", 0)
	svc := NewLedgerService(
		repository.NewGormLedgerStore(db),
		moduleRepo,
		ledger.NewGrantor(ledger.DefaultPolicy()),
		nil,
	)
	res := svc.SubmitQuiz(context.Background(), user.ID, first.ID, "easy", QuizSubmission{Answers: submitted})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 100, res.ScorePercent)
	assert.True(t, res.Passed)
	assert.Equal(t, 400, res.TintaEarned)
}

func TestCompleteGameConcurrent(t *testing.T) {
	f := newLedgerFixture(t)

	var wg sync.WaitGroup
	results := make([]*LedgerResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.svc.CompleteGame(context.Background(), f.user.ID, ledger.GameDragDrop)
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, r := range results {
		if r.Success {
			granted++
		} else {
			assert.True(t, r.AlreadyCompleted, r.Error)
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, 9000, f.tinta(t))
}

func TestCompleteGameUnknown(t *testing.T) {
	f := newLedgerFixture(t)

	res := f.svc.CompleteGame(context.Background(), f.user.ID, "sudoku")
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, util.ErrUnknownGame)
}

func TestLedgerNotAuthenticated(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res := f.svc.MarkModuleRead(ctx, 0, f.module.ID)
	assert.False(t, res.Success)
	assert.Equal(t, "User not authenticated", res.Error)
	assert.ErrorIs(t, res.Err, util.ErrNotAuthenticated)

	// 令牌中的用户已不存在：整个事务回滚
	res = f.svc.MarkModuleRead(ctx, 4242, f.module.ID)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, util.ErrNotAuthenticated)

	_, err := repository.NewProgressRepository(f.db).FindByUserModule(ctx, 4242, f.module.ID)
	assert.ErrorIs(t, err, util.ErrRecordNotFound)
}

// failingStore 在事务中让余额写入失败
type failingStore struct {
	repository.LedgerStore
}

func (s *failingStore) IncrementBalance(ctx context.Context, userID uint, delta int) error {
	return errors.New("disk I/O error")
}

func (s *failingStore) Atomically(ctx context.Context, fn func(store repository.LedgerStore) error) error {
	return s.LedgerStore.Atomically(ctx, func(tx repository.LedgerStore) error {
		return fn(&failingStore{LedgerStore: tx})
	})
}

func TestLedgerStoreFailureRollsBack(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.svc.Store = &failingStore{LedgerStore: f.svc.Store}
	testutil.SeedQuestions(t, f.db, f.module.ID, "easy", "A", "A")

	res := f.svc.MarkModuleRead(ctx, f.user.ID, f.module.ID)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to update progress", res.Error)
	assert.ErrorIs(t, res.Err, util.ErrStoreFailure)
	assert.Nil(t, f.progress(t))

	res = f.svc.SubmitQuiz(ctx, f.user.ID, f.module.ID, "easy", QuizSubmission{Answers: answers(2, 2)})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to submit quiz", res.Error)
	assert.Nil(t, f.progress(t))

	results, err := repository.NewQuizRepository(f.db).FindResults(ctx, f.user.ID, f.module.ID)
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.Zero(t, f.tinta(t))
	assert.Empty(t, f.observer.calls)
}
