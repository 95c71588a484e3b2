package service

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/testutil"
	"aksara_backend/internal/util"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewRewardPolicy(t *testing.T) {
	p := NewRewardPolicy(&config.RewardConfig{
		ModuleRead:    500,
		Video:         500,
		QuizEasy:      10,
		QuizMedium:    20,
		QuizHard:      30,
		PassThreshold: 70,
		Games:         map[string]int{"tts": 1},
	})

	assert.Equal(t, 500, p.Video)
	assert.Equal(t, 20, p.QuizRate(ledger.Medium))
	assert.False(t, p.Passed(69))
	assert.True(t, p.Passed(70))

	reward, ok := p.GameReward("tts")
	assert.True(t, ok)
	assert.Equal(t, 1, reward)
	_, ok = p.GameReward("dragdrop")
	assert.False(t, ok)

	// 没有配置游戏时沿用默认值
	p = NewRewardPolicy(&config.RewardConfig{Video: 750})
	reward, ok = p.GameReward(ledger.GameDragDrop)
	assert.True(t, ok)
	assert.Equal(t, 9000, reward)

	assert.Equal(t, ledger.DefaultPolicy().Video, NewRewardPolicy(nil).Video)
}

func TestModuleService(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s := NewModuleService(repository.NewModuleRepository(db), repository.NewProgressRepository(db))

	user := testutil.SeedUser(t, db, "siti@example.com", 0)
	m2 := testutil.SeedModule(t, db, 2)
	m1 := testutil.SeedModule(t, db, 1)
	require.NoError(t, db.Create(&model.LearningProgress{UserID: user.ID, ModuleID: m2.ID, Progress: 40, ModuleViewed: true, VideoViewed: true}).Error)
	require.NoError(t, db.Create(&[]model.ModuleContent{
		{ModuleID: m1.ID, Title: "Kedua", Order: 2},
		{ModuleID: m1.ID, Title: "Pertama", Order: 1},
	}).Error)
	testutil.SeedQuestions(t, db, m1.ID, "medium", "C", "A")

	list, err := s.ListModules(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m1.ID, list[0].ID)
	assert.Zero(t, list[0].Progress)
	assert.Equal(t, 40, list[1].Progress)

	contents, err := s.GetModuleContents(ctx, m1.ID)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "Pertama", contents[0].Title)

	_, err = s.GetModuleContents(ctx, 999)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	questions, err := s.GetQuizQuestions(ctx, m1.ID, "sedang")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].QuestionNumber)

	_, err = s.GetQuizQuestions(ctx, m1.ID, "hard")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
	_, err = s.GetQuizQuestions(ctx, m1.ID, "expert")
	assert.ErrorIs(t, err, ledger.ErrUnknownDifficulty)
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewQuizRepository(db),
		repository.NewGameRepository(db),
		ledger.NewGrantor(ledger.DefaultPolicy()),
	)
}

func TestProgressQueries(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s := newProgressService(db)

	user := testutil.SeedUser(t, db, "siti@example.com", 0)
	m := testutil.SeedModule(t, db, 1)

	// 没有记录时返回零状态
	p, err := s.GetModuleProgress(ctx, user.ID, m.ID)
	require.NoError(t, err)
	assert.Zero(t, p.ID)
	assert.Zero(t, p.Progress)
	assert.False(t, p.ModuleViewed)

	all, err := s.GetAllProgress(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, db.Create(&model.LearningProgress{UserID: user.ID, ModuleID: m.ID, Progress: 20, ModuleViewed: true}).Error)
	recent, err := s.GetRecentProgress(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.NotNil(t, recent[0].Module)
	assert.Equal(t, m.Title, recent[0].Module.Title)
}

func TestDashboardStats(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s := newProgressService(db)
	user := testutil.SeedUser(t, db, "siti@example.com", 0)

	for i := 1; i <= 4; i++ {
		m := testutil.SeedModule(t, db, i)
		require.NoError(t, db.Create(&model.LearningProgress{
			UserID:          user.ID,
			ModuleID:        m.ID,
			ModuleViewed:    true,
			VideoViewed:     true,
			EasyCompleted:   true,
			MediumCompleted: i == 1,
			HardCompleted:   i == 1,
		}).Error)
	}
	games := repository.NewGameRepository(db)
	require.NoError(t, games.Insert(ctx, user.ID, ledger.GameCrossword))
	require.NoError(t, games.Insert(ctx, user.ID, "retired-game"))

	stats, err := s.GetDashboardStats(ctx, user.ID)
	require.NoError(t, err)
	// 四个模块都学完，但最多显示 3/3
	assert.Equal(t, model.CategoryStat{Completed: 3, Total: 3}, stats.Belajar)
	assert.Equal(t, model.CategoryStat{Completed: 1, Total: 3}, stats.Latihan)
	assert.Equal(t, model.CategoryStat{Completed: 1, Total: 2}, stats.Bermain)
}

func TestLeaderboardFallsBackToDatabase(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	s := NewLeaderboardService(users, repository.NewLeaderboardCache(nil))

	a := testutil.SeedUser(t, db, "a@example.com", 100)
	b := testutil.SeedUser(t, db, "b@example.com", 300)
	c := testutil.SeedUser(t, db, "c@example.com", 100)
	d := testutil.SeedUser(t, db, "d@example.com", 50)

	// 没有 Redis 时 BalanceChanged 是空操作
	s.BalanceChanged(ctx, a.ID, 100)

	resp, err := s.GetLeaderboard(ctx, c.ID, 2)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, b.ID, resp.Entries[0].UserID)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, a.ID, resp.Entries[1].UserID)

	// 同分时 id 小的在前
	require.NotNil(t, resp.Me)
	assert.Equal(t, 3, resp.Me.Rank)
	assert.Equal(t, c.ID, resp.Me.UserID)

	resp, err = s.GetLeaderboard(ctx, b.ID, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 4)
	assert.Equal(t, 1, resp.Me.Rank)
	assert.Equal(t, d.ID, resp.Entries[3].UserID)
}

func newRedisLeaderboard(t *testing.T, db *gorm.DB) (*LeaderboardService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLeaderboardService(repository.NewUserRepository(db), repository.NewLeaderboardCache(rdb)), mr
}

func TestLeaderboardColdCacheGrantKeepsEveryone(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s, mr := newRedisLeaderboard(t, db)
	users := repository.NewUserRepository(db)

	rich := testutil.SeedUser(t, db, "rich@example.com", 50000)
	poor := testutil.SeedUser(t, db, "poor@example.com", 0)

	require.NoError(t, users.IncrementTinta(ctx, poor.ID, 500))
	s.BalanceChanged(ctx, poor.ID, 500)

	resp, err := s.GetLeaderboard(ctx, poor.ID, 10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, rich.ID, resp.Entries[0].UserID)
	assert.Equal(t, 50000, resp.Entries[0].Tinta)
	assert.Equal(t, poor.ID, resp.Entries[1].UserID)
	assert.Equal(t, 500, resp.Entries[1].Tinta)
	require.NotNil(t, resp.Me)
	assert.Equal(t, 2, resp.Me.Rank)

	members, err := mr.ZMembers("aksara:leaderboard:tinta")
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Greater(t, mr.TTL("aksara:leaderboard:tinta"), time.Duration(0))
}

func TestLeaderboardCacheTiesMatchDatabaseOrder(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s, _ := newRedisLeaderboard(t, db)

	var seeded []*model.User
	for i := 0; i < 11; i++ {
		seeded = append(seeded, testutil.SeedUser(t, db, fmt.Sprintf("u%02d@example.com", i), 100))
	}
	top := testutil.SeedUser(t, db, "top@example.com", 900)

	// 第一次回退到数据库并重建缓存，第二次从缓存读取
	first, err := s.GetLeaderboard(ctx, seeded[10].ID, 3)
	require.NoError(t, err)
	second, err := s.GetLeaderboard(ctx, seeded[10].ID, 3)
	require.NoError(t, err)

	for _, resp := range []*LeaderboardResponse{first, second} {
		require.Len(t, resp.Entries, 3)
		assert.Equal(t, top.ID, resp.Entries[0].UserID)
		assert.Equal(t, seeded[0].ID, resp.Entries[1].UserID)
		assert.Equal(t, seeded[1].ID, resp.Entries[2].UserID)
		require.NotNil(t, resp.Me)
		assert.Equal(t, 12, resp.Me.Rank)
	}
}

func TestLeaderboardCacheRebuildsAfterNewUser(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s, _ := newRedisLeaderboard(t, db)

	testutil.SeedUser(t, db, "a@example.com", 100)
	_, err := s.GetLeaderboard(ctx, 0, 10)
	require.NoError(t, err)

	late := testutil.SeedUser(t, db, "late@example.com", 0)
	resp, err := s.GetLeaderboard(ctx, late.ID, 10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, late.ID, resp.Entries[1].UserID)
}

func TestArtworkSelection(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	s := NewArtworkService(repository.NewArtworkRepository(db), repository.NewUserRepository(db))

	user := testutil.SeedUser(t, db, "siti@example.com", 2500)
	free := testutil.SeedArtwork(t, db, "Wayang", 0)
	batik := testutil.SeedArtwork(t, db, "Batik", 2000)
	keris := testutil.SeedArtwork(t, db, "Keris", 20000)

	_, err := s.SelectArtwork(ctx, user.ID, keris.ID)
	assert.ErrorIs(t, err, util.ErrInsufficientTinta)
	_, err = s.SelectArtwork(ctx, user.ID, 999)
	assert.ErrorIs(t, err, util.ErrArtworkNotFound)

	_, err = s.SelectArtwork(ctx, user.ID, free.ID)
	require.NoError(t, err)
	selected, err := s.SelectArtwork(ctx, user.ID, batik.ID)
	require.NoError(t, err)
	assert.True(t, selected.IsActive)

	list, err := s.ListArtworks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	status := map[uint]model.ArtworkWithStatus{}
	for _, a := range list {
		status[a.ID] = a
	}
	assert.True(t, status[free.ID].IsUnlocked)
	assert.False(t, status[free.ID].IsActive)
	assert.True(t, status[batik.ID].IsActive)
	assert.False(t, status[keris.ID].IsUnlocked)

	// 选择不扣除 tinta
	tinta, err := repository.NewUserRepository(db).GetTinta(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500, tinta)
}
