package model

// swagger:model Module
type Module struct {
	BaseModel
	ModuleNumber int    `gorm:"not null;index" json:"moduleNumber"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Slug         string `gorm:"size:120;uniqueIndex" json:"slug"`
	Description  string `gorm:"type:text" json:"description"`
	VideoURL     string `gorm:"size:255" json:"videoUrl"`
	Order        int    `gorm:"default:0" json:"order"`
}

func (Module) TableName() string {
	return "modules"
}

// ModuleContent 模块的阅读材料，按 Order 排列
type ModuleContent struct {
	BaseModel
	ModuleID uint   `gorm:"index;not null" json:"moduleId"`
	Title    string `gorm:"size:255" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	ImageURL string `gorm:"size:255" json:"imageUrl"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (ModuleContent) TableName() string {
	return "module_contents"
}
