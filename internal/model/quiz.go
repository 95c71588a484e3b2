package model

import "time"

// QuizQuestion CorrectAnswer 不会返回给客户端
type QuizQuestion struct {
	BaseModel
	ModuleID       uint   `gorm:"not null;index:idx_question_module_difficulty" json:"moduleId"`
	Difficulty     string `gorm:"size:10;not null;index:idx_question_module_difficulty" json:"difficulty"`
	QuestionNumber int    `gorm:"not null" json:"questionNumber"`
	Question       string `gorm:"type:text;not null" json:"question"`
	OptionA        string `gorm:"size:255" json:"optionA"`
	OptionB        string `gorm:"size:255" json:"optionB"`
	OptionC        string `gorm:"size:255" json:"optionC"`
	OptionD        string `gorm:"size:255" json:"optionD"`
	CorrectAnswer  string `gorm:"size:255;not null" json:"-"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizResult 每个 (用户, 模块, 难度) 只保存最近一次提交
// swagger:model QuizResult
type QuizResult struct {
	BaseModel
	UserID         uint      `gorm:"not null;uniqueIndex:idx_quiz_user_module_difficulty" json:"userId"`
	ModuleID       uint      `gorm:"not null;uniqueIndex:idx_quiz_user_module_difficulty" json:"moduleId"`
	Difficulty     string    `gorm:"size:10;not null;uniqueIndex:idx_quiz_user_module_difficulty" json:"difficulty"`
	Score          int       `gorm:"not null" json:"score"`
	CorrectAnswers int       `gorm:"not null" json:"correctAnswers"`
	WrongAnswers   int       `gorm:"not null" json:"wrongAnswers"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`

	Module *Module `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
