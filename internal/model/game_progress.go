package model

import "time"

// GameProgress 行存在即表示该游戏已完成，唯一索引保证每个用户只能完成一次
type GameProgress struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_game_user_game" json:"userId"`
	GameID      string    `gorm:"size:32;not null;uniqueIndex:idx_game_user_game" json:"gameId"`
	Completed   bool      `gorm:"default:true" json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

func (GameProgress) TableName() string {
	return "game_progress"
}
