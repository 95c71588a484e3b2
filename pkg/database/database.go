package database

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/model"
	"aksara_backend/internal/util"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, serverMode string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if serverMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Database connection established (%s)", cfg.Driver)
	return db, nil
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == util.DriverSQLite {
		// 外键与忙等待，SQLite 下保证事务串行
		return sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path))
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
	return mysql.Open(dsn)
}

// Migrate 建表
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.ModuleContent{},
		&model.LearningProgress{},
		&model.QuizQuestion{},
		&model.QuizResult{},
		&model.GameProgress{},
		&model.Artwork{},
		&model.UserArtwork{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

// Seed 空库时写入默认模块、阅读材料、测验题与作品，重复执行不会产生重复数据
func Seed(db *gorm.DB) error {
	// 默认学习模块
	var moduleCount int64
	if err := db.Model(&model.Module{}).Count(&moduleCount).Error; err != nil {
		return err
	}
	if moduleCount == 0 {
		defaultModules := []model.Module{
			{ModuleNumber: 1, Title: "Mengenal Aksara Jawa", Slug: "mengenal-aksara-jawa", Order: 1},
			{ModuleNumber: 2, Title: "Sandhangan", Slug: "sandhangan", Order: 2},
			{ModuleNumber: 3, Title: "Pasangan", Slug: "pasangan", Order: 3},
		}
		for i := range defaultModules {
			if err := db.Create(&defaultModules[i]).Error; err != nil {
				return err
			}
		}
	}

	if err := seedModuleMaterials(db); err != nil {
		return err
	}

	// 默认作品，按所需 tinta 递增
	var artworkCount int64
	if err := db.Model(&model.Artwork{}).Count(&artworkCount).Error; err != nil {
		return err
	}
	if artworkCount == 0 {
		defaultArtworks := []model.Artwork{
			{Title: "Wayang Kulit", RequiredTinta: 0, Order: 1},
			{Title: "Batik Parang", RequiredTinta: 2000, Order: 2},
			{Title: "Candi Borobudur", RequiredTinta: 5000, Order: 3},
			{Title: "Gunungan", RequiredTinta: 10000, Order: 4},
			{Title: "Keris", RequiredTinta: 20000, Order: 5},
		}
		for i := range defaultArtworks {
			if err := db.Create(&defaultArtworks[i]).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
