package model

// Artwork tinta 达到 RequiredTinta 即可解锁，不消耗余额
type Artwork struct {
	BaseModel
	Title         string `gorm:"size:120;not null" json:"title"`
	ImageURL      string `gorm:"size:255" json:"imageUrl"`
	RequiredTinta int    `gorm:"not null;default:0" json:"requiredTinta"`
	Order         int    `gorm:"default:0" json:"order"`
}

func (Artwork) TableName() string {
	return "artworks"
}

type UserArtwork struct {
	BaseModel
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_artwork" json:"userId"`
	ArtworkID uint `gorm:"not null;uniqueIndex:idx_user_artwork" json:"artworkId"`
	IsActive  bool `gorm:"default:false" json:"isActive"`
}

func (UserArtwork) TableName() string {
	return "user_artworks"
}

// ArtworkWithStatus 带当前用户解锁状态的作品
type ArtworkWithStatus struct {
	Artwork
	IsUnlocked bool `json:"isUnlocked"`
	IsActive   bool `json:"isActive"`
}
