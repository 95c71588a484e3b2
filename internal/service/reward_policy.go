package service

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/ledger"
)

// NewRewardPolicy 把 reward 配置转换为奖励策略，未配置的游戏沿用默认值
func NewRewardPolicy(cfg *config.RewardConfig) ledger.Policy {
	p := ledger.DefaultPolicy()
	if cfg == nil {
		return p
	}

	p.ModuleRead = cfg.ModuleRead
	p.Video = cfg.Video
	p.QuizRates = map[ledger.Difficulty]int{
		ledger.Easy:   cfg.QuizEasy,
		ledger.Medium: cfg.QuizMedium,
		ledger.Hard:   cfg.QuizHard,
	}
	p.PassThreshold = cfg.PassThreshold

	if len(cfg.Games) > 0 {
		games := make(map[string]int, len(cfg.Games))
		for id, amount := range cfg.Games {
			games[id] = amount
		}
		p.Games = games
	}
	return p
}
