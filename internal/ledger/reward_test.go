package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrantModuleReadOnce(t *testing.T) {
	g := NewGrantor(DefaultPolicy())

	prev := Flags{}
	next, changed := prev.Complete(ModuleRead)
	assert.True(t, changed)
	assert.Equal(t, 500, g.GrantIfNewly(KindModuleRead, prev, next, Context{}))

	// 第二次：标记已为完成
	again, changed := next.Complete(ModuleRead)
	assert.False(t, changed)
	assert.Zero(t, g.GrantIfNewly(KindModuleRead, next, again, Context{}))
}

func TestGrantVideoVariants(t *testing.T) {
	prev := NewFlags(ModuleRead)
	next, _ := prev.Complete(VideoWatched)

	assert.Equal(t, 750, NewGrantor(DefaultPolicy()).GrantIfNewly(KindVideo, prev, next, Context{}))
	assert.Equal(t, 500, NewGrantor(FlatPolicy()).GrantIfNewly(KindVideo, prev, next, Context{}))
	assert.Zero(t, NewGrantor(DefaultPolicy()).GrantIfNewly(KindVideo, next, next, Context{}))
}

func TestGrantQuizPerAttempt(t *testing.T) {
	g := NewGrantor(DefaultPolicy())
	done := NewFlags(EasyQuiz)

	tests := []struct {
		name    string
		diff    Difficulty
		correct int
		want    int
	}{
		{"easy", Easy, 8, 800},
		{"medium", Medium, 4, 600},
		{"hard", Hard, 10, 2000},
		{"failed attempt still paid", Easy, 3, 300},
		{"nothing correct", Hard, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.GrantIfNewly(KindQuiz, done, done, Context{Difficulty: tt.diff, CorrectCount: tt.correct})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrantGameFirstCompletionOnly(t *testing.T) {
	g := NewGrantor(DefaultPolicy())

	assert.Equal(t, 6000, g.GrantIfNewly(KindGame, Flags{}, Flags{}, Context{GameID: GameCrossword, FirstCompletion: true}))
	assert.Equal(t, 9000, g.GrantIfNewly(KindGame, Flags{}, Flags{}, Context{GameID: GameDragDrop, FirstCompletion: true}))
	assert.Zero(t, g.GrantIfNewly(KindGame, Flags{}, Flags{}, Context{GameID: GameCrossword}))
	assert.Zero(t, g.GrantIfNewly(KindGame, Flags{}, Flags{}, Context{GameID: "snake", FirstCompletion: true}))
}

func TestGrantorSetPolicy(t *testing.T) {
	g := NewGrantor(DefaultPolicy())
	p := DefaultPolicy()
	p.ModuleRead = 42
	g.SetPolicy(p)

	next, _ := Flags{}.Complete(ModuleRead)
	assert.Equal(t, 42, g.GrantIfNewly(KindModuleRead, Flags{}, next, Context{}))
}

func TestPolicyPassed(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.Passed(60))
	assert.True(t, p.Passed(100))
	assert.False(t, p.Passed(59))
}

func TestPolicyQuizRateFallsBackToEasy(t *testing.T) {
	assert.Equal(t, 100, DefaultPolicy().QuizRate(Difficulty("unknown")))
}
