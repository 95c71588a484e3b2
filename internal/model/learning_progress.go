package model

// LearningProgress 每个 (用户, 模块) 一行，记录五项活动的完成标记。
// Progress 与 Completed 由标记推导，不能单独写入。
// swagger:model LearningProgress
type LearningProgress struct {
	BaseModel
	UserID          uint `gorm:"not null;uniqueIndex:idx_progress_user_module" json:"userId"`
	ModuleID        uint `gorm:"not null;uniqueIndex:idx_progress_user_module" json:"moduleId"`
	Progress        int  `gorm:"default:0;not null" json:"progress"`
	ModuleViewed    bool `gorm:"default:false" json:"moduleViewed"`
	VideoViewed     bool `gorm:"default:false" json:"videoViewed"`
	EasyCompleted   bool `gorm:"default:false" json:"easyCompleted"`
	MediumCompleted bool `gorm:"default:false" json:"mediumCompleted"`
	HardCompleted   bool `gorm:"default:false" json:"hardCompleted"`
	Completed       bool `gorm:"default:false" json:"completed"`

	Module *Module `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

func (LearningProgress) TableName() string {
	return "learning_progress"
}
