package ledger

import "sync"

// Kind 奖励来源
type Kind string

const (
	KindModuleRead Kind = "module"
	KindVideo      Kind = "video"
	KindQuiz       Kind = "quiz"
	KindGame       Kind = "game"
)

// 小游戏 ID
const (
	GameCrossword = "tts"
	GameDragDrop  = "dragdrop"
)

// Policy 奖励策略常量。视频奖励存在两个版本（750 与 500），两者都以策略形式保留。
type Policy struct {
	ModuleRead    int
	Video         int
	QuizRates     map[Difficulty]int
	Games         map[string]int
	PassThreshold int
}

// DefaultPolicy 模块 500、视频 750
func DefaultPolicy() Policy {
	return Policy{
		ModuleRead: 500,
		Video:      750,
		QuizRates: map[Difficulty]int{
			Easy:   100,
			Medium: 150,
			Hard:   200,
		},
		Games: map[string]int{
			GameCrossword: 6000,
			GameDragDrop:  9000,
		},
		PassThreshold: 60,
	}
}

// FlatPolicy 模块与视频统一 500 的版本
func FlatPolicy() Policy {
	p := DefaultPolicy()
	p.Video = 500
	return p
}

// Passed 测验分数是否达到翻转完成标记的阈值
func (p Policy) Passed(score int) bool {
	return score >= p.PassThreshold
}

// QuizRate 每答对一题的奖励，未知难度按简单计算
func (p Policy) QuizRate(d Difficulty) int {
	if r, ok := p.QuizRates[d]; ok {
		return r
	}
	return p.QuizRates[Easy]
}

// GameReward 未登记的游戏返回 false
func (p Policy) GameReward(gameID string) (int, bool) {
	r, ok := p.Games[gameID]
	return r, ok
}

// Context 计算奖励所需的附加信息
type Context struct {
	Difficulty      Difficulty
	CorrectCount    int
	GameID          string
	FirstCompletion bool
}

// Grantor 根据状态转换决定发放多少 tinta。策略可在运行时替换（配置热加载）。
type Grantor struct {
	mu     sync.RWMutex
	policy Policy
}

func NewGrantor(p Policy) *Grantor {
	return &Grantor{policy: p}
}

func (g *Grantor) Policy() Policy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.policy
}

func (g *Grantor) SetPolicy(p Policy) {
	g.mu.Lock()
	g.policy = p
	g.mu.Unlock()
}

// GrantIfNewly 返回应发放的数量，0 表示不发放。
//   - 模块/视频：仅在对应标记由未完成变为完成时发放一次
//   - 测验：每次提交按答对题数发放，与是否及格、之前的提交无关
//   - 游戏：仅首次完成时发放
func (g *Grantor) GrantIfNewly(kind Kind, prev, next Flags, c Context) int {
	p := g.Policy()

	switch kind {
	case KindModuleRead:
		if !prev.Done(ModuleRead) && next.Done(ModuleRead) {
			return p.ModuleRead
		}
	case KindVideo:
		if !prev.Done(VideoWatched) && next.Done(VideoWatched) {
			return p.Video
		}
	case KindQuiz:
		if c.CorrectCount > 0 {
			return c.CorrectCount * p.QuizRate(c.Difficulty)
		}
	case KindGame:
		if c.FirstCompletion {
			amount, _ := p.GameReward(c.GameID)
			return amount
		}
	}
	return 0
}
