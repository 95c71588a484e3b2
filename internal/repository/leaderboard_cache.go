package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const leaderboardKey = "aksara:leaderboard:tinta"

// LeaderboardCache 基于 Redis 有序集合的 tinta 排行，Redis 为 nil 时所有方法都是空操作
type LeaderboardCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewLeaderboardCache(rdb *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{Redis: rdb, TTL: 30 * time.Minute}
}

func (c *LeaderboardCache) Enabled() bool {
	return c != nil && c.Redis != nil
}

// setScoreScript 只在排行已存在时更新分数并续期，冷缓存交给 Replace 整体重建
var setScoreScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("ZADD", KEYS[1], ARGV[1], ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

// SetScore 写入用户当前余额（不是增量），返回缓存是否已更新
func (c *LeaderboardCache) SetScore(ctx context.Context, userID uint, tinta int) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	n, err := setScoreScript.Run(ctx, c.Redis, []string{leaderboardKey},
		tinta,
		strconv.FormatUint(uint64(userID), 10),
		c.TTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Size 有序集合中的成员数
func (c *LeaderboardCache) Size(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	return c.Redis.ZCard(ctx, leaderboardKey).Result()
}

// Replace 用完整的数据重建排行
func (c *LeaderboardCache) Replace(ctx context.Context, scores map[uint]int) error {
	if !c.Enabled() {
		return nil
	}

	members := make([]*redis.Z, 0, len(scores))
	for id, tinta := range scores {
		members = append(members, &redis.Z{
			Score:  float64(tinta),
			Member: strconv.FormatUint(uint64(id), 10),
		})
	}

	pipe := c.Redis.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
		pipe.Expire(ctx, leaderboardKey, c.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top 返回按 tinta 降序的用户 ID，缓存为空时返回空切片。
// 与第 limit 名同分的成员全部返回，由调用方按 (tinta DESC, id ASC) 排序后截断。
func (c *LeaderboardCache) Top(ctx context.Context, limit int) ([]uint, error) {
	if !c.Enabled() {
		return nil, nil
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	top, err := c.Redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(top))
	seen := make(map[string]bool, len(top))
	for _, z := range top {
		m, _ := z.Member.(string)
		members = append(members, m)
		seen[m] = true
	}

	if limit > 0 && len(top) == limit {
		last := strconv.FormatFloat(top[len(top)-1].Score, 'f', -1, 64)
		tied, err := c.Redis.ZRangeByScore(ctx, leaderboardKey, &redis.ZRangeBy{Min: last, Max: last}).Result()
		if err != nil {
			return nil, err
		}
		for _, m := range tied {
			if !seen[m] {
				members = append(members, m)
				seen[m] = true
			}
		}
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
