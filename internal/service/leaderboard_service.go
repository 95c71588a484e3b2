package service

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"aksara_backend/pkg/logger"
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

const DefaultLeaderboardLimit = 10

type LeaderboardResponse struct {
	Entries []model.LeaderboardEntry `json:"entries"`
	Me      *model.LeaderboardEntry  `json:"me,omitempty"`
}

// LeaderboardService 优先读取 Redis 有序集合，缓存不可用或为空时回退到数据库
type LeaderboardService struct {
	UserRepo *repository.UserRepository
	Cache    *repository.LeaderboardCache
}

func NewLeaderboardService(userRepo *repository.UserRepository, cache *repository.LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		UserRepo: userRepo,
		Cache:    cache,
	}
}

// BalanceChanged 账本提交后同步缓存中的分数，失败只记录日志
func (s *LeaderboardService) BalanceChanged(ctx context.Context, userID uint, tinta int) {
	updated, err := s.Cache.SetScore(ctx, userID, tinta)
	if err != nil {
		logger.Log.Warn("failed to update leaderboard cache", zap.Uint("userID", userID), zap.Error(err))
		return
	}
	if !updated && s.Cache.Enabled() {
		s.warmCache(ctx)
	}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, userID uint, limit int) (*LeaderboardResponse, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	users, err := s.fromCache(ctx, limit)
	if err != nil {
		logger.Log.Warn("leaderboard cache unavailable, falling back to database", zap.Error(err))
	}
	if len(users) == 0 {
		users, err = s.UserRepo.FindTopByTinta(ctx, limit)
		if err != nil {
			return nil, err
		}
		s.warmCache(ctx)
	}

	resp := &LeaderboardResponse{Entries: make([]model.LeaderboardEntry, 0, len(users))}
	for i, u := range users {
		entry := toEntry(i+1, &u)
		resp.Entries = append(resp.Entries, entry)
		if u.ID == userID {
			me := entry
			resp.Me = &me
		}
	}

	if resp.Me == nil && userID != 0 {
		me, err := s.rankOf(ctx, userID)
		if err != nil {
			return nil, err
		}
		resp.Me = me
	}
	return resp, nil
}

// fromCache 缓存成员数少于用户数时视为不完整，返回空让调用方回退并重建
func (s *LeaderboardService) fromCache(ctx context.Context, limit int) ([]model.User, error) {
	if !s.Cache.Enabled() {
		return nil, nil
	}

	size, err := s.Cache.Size(ctx)
	if err != nil || size == 0 {
		return nil, err
	}
	total, err := s.UserRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if size < total {
		return nil, nil
	}

	ids, err := s.Cache.Top(ctx, limit)
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	users, err := s.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Tinta != users[j].Tinta {
			return users[i].Tinta > users[j].Tinta
		}
		return users[i].ID < users[j].ID
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// warmCache 用数据库中的全部余额重建有序集合
func (s *LeaderboardService) warmCache(ctx context.Context) {
	if !s.Cache.Enabled() {
		return
	}
	all, err := s.UserRepo.FindTopByTinta(ctx, 0)
	if err != nil {
		logger.Log.Warn("failed to load balances for leaderboard cache", zap.Error(err))
		return
	}
	scores := make(map[uint]int, len(all))
	for _, u := range all {
		scores[u.ID] = u.Tinta
	}
	if err := s.Cache.Replace(ctx, scores); err != nil {
		logger.Log.Warn("failed to rebuild leaderboard cache", zap.Error(err))
	}
}

func (s *LeaderboardService) rankOf(ctx context.Context, userID uint) (*model.LeaderboardEntry, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, util.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ahead, err := s.UserRepo.CountAhead(ctx, userID, user.Tinta)
	if err != nil {
		return nil, err
	}
	entry := toEntry(int(ahead)+1, user)
	return &entry, nil
}

func toEntry(rank int, u *model.User) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		Rank:     rank,
		UserID:   u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Tinta:    u.Tinta,
	}
}
