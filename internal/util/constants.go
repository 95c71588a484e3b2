package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	DriverSQLite = "sqlite"
)

// 头像上传
const (
	MimeImage     = "image/"
	MaxAvatarSize = 2 << 20
)

var (
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// 首页卡片的总数（学习模块 3 个、游戏 2 个）
const (
	DashboardModuleTotal = 3
	DashboardGameTotal   = 2
)

const DefaultRecentLimit = 5
