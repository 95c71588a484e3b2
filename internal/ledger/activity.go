// Package ledger 学习进度与 tinta 奖励的纯计算逻辑：进度百分比、奖励发放判定与测验评分。
// 这里不做任何 I/O，持久化由 service 层在事务中完成。
package ledger

import (
	"errors"
	"strings"
)

// Activity 模块内可完成的学习活动
type Activity int

const (
	ModuleRead Activity = iota
	VideoWatched
	EasyQuiz
	MediumQuiz
	HardQuiz

	activityCount
)

// Activities 按固定顺序列出所有活动
var Activities = []Activity{ModuleRead, VideoWatched, EasyQuiz, MediumQuiz, HardQuiz}

func (a Activity) String() string {
	switch a {
	case ModuleRead:
		return "module_read"
	case VideoWatched:
		return "video"
	case EasyQuiz:
		return "easy_quiz"
	case MediumQuiz:
		return "medium_quiz"
	case HardQuiz:
		return "hard_quiz"
	}
	return "unknown"
}

func (a Activity) valid() bool {
	return a >= ModuleRead && a < activityCount
}

// State 单个活动的状态。只存在 NotStarted -> Completed 一个方向的转换
type State uint8

const (
	NotStarted State = iota
	Completed
)

// Flags 一个 (用户, 模块) 的活动状态集合，零值为全部未开始。
// 没有任何方法可以把 Completed 改回 NotStarted。
type Flags struct {
	states [activityCount]State
}

// NewFlags 用已完成的活动构造状态集合
func NewFlags(done ...Activity) Flags {
	var f Flags
	for _, a := range done {
		f, _ = f.Complete(a)
	}
	return f
}

// Done 活动是否已完成
func (f Flags) Done(a Activity) bool {
	if !a.valid() {
		return false
	}
	return f.states[a] == Completed
}

// Complete 返回把 a 标记为完成后的新状态，以及这次调用是否真的发生了转换
func (f Flags) Complete(a Activity) (Flags, bool) {
	if !a.valid() || f.states[a] == Completed {
		return f, false
	}
	f.states[a] = Completed
	return f, true
}

// Count 已完成的活动数
func (f Flags) Count() int {
	n := 0
	for _, s := range f.states {
		if s == Completed {
			n++
		}
	}
	return n
}

// Difficulty 测验难度
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.New("unknown quiz difficulty")

// ParseDifficulty 同时接受客户端使用的印尼语名称 mudah / sedang / sulit
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "mudah":
		return Easy, nil
	case "medium", "sedang":
		return Medium, nil
	case "hard", "sulit":
		return Hard, nil
	}
	return "", ErrUnknownDifficulty
}

// Activity 难度对应的测验活动
func (d Difficulty) Activity() Activity {
	switch d {
	case Easy:
		return EasyQuiz
	case Medium:
		return MediumQuiz
	case Hard:
		return HardQuiz
	}
	return activityCount
}
