package ledger

import "strings"

// AnswerKey 一道题的正确选项，QuestionIndex 为题目在测验中的位置（从 0 开始）
type AnswerKey struct {
	QuestionIndex int
	CorrectOption string
}

type Grade struct {
	Correct      int `json:"correctAnswers"`
	Wrong        int `json:"wrongAnswers"`
	Total        int `json:"totalQuestions"`
	ScorePercent int `json:"score"`
}

// GradeQuiz 对照答案评分。未作答视为答错，不会返回错误。
func GradeQuiz(answers map[int]string, key []AnswerKey) Grade {
	g := Grade{Total: len(key)}
	for _, k := range key {
		chosen := strings.TrimSpace(answers[k.QuestionIndex])
		if chosen != "" && chosen == strings.TrimSpace(k.CorrectOption) {
			g.Correct++
		}
	}
	g.Wrong = g.Total - g.Correct
	g.ScorePercent = ScorePercent(g.Correct, g.Total)
	return g
}

// ScorePercent round(100 * correct / total)，四舍五入（0.5 进位）；total 为 0 时得 0
func ScorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
