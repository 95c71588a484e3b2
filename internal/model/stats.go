package model

// CategoryStat 首页卡片上的 已完成/总数
type CategoryStat struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// DashboardStats belajar=学习，latihan=练习，bermain=游戏
type DashboardStats struct {
	Belajar CategoryStat `json:"belajar"`
	Latihan CategoryStat `json:"latihan"`
	Bermain CategoryStat `json:"bermain"`
}

// ModuleWithProgress 模块列表项，Progress 为当前用户的百分比
type ModuleWithProgress struct {
	Module
	Progress int `json:"progress"`
}

type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   uint    `json:"id"`
	FullName string  `json:"fullName"`
	Username *string `json:"username"`
	Tinta    int     `json:"tinta"`
}
