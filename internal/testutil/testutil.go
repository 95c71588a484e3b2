// Package testutil 为仓储与服务测试提供内存 SQLite 数据库和种子数据。
package testutil

import (
	"aksara_backend/internal/model"
	"aksara_backend/pkg/database"
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB 每个测试一个独立的内存数据库
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, email string, tinta int) *model.User {
	tb.Helper()
	u := &model.User{
		Email:    email,
		Password: "pw",
		FullName: strings.Split(email, "@")[0],
		Tinta:    tinta,
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedModule(tb testing.TB, db *gorm.DB, number int) *model.Module {
	tb.Helper()
	m := &model.Module{
		ModuleNumber: number,
		Title:        fmt.Sprintf("Modul %d", number),
		Slug:         fmt.Sprintf("modul-%d", number),
		Order:        number,
	}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

// SeedQuestions 按顺序写入题目，answers[i] 为第 i 题的正确选项
func SeedQuestions(tb testing.TB, db *gorm.DB, moduleID uint, difficulty string, answers ...string) []model.QuizQuestion {
	tb.Helper()
	questions := make([]model.QuizQuestion, len(answers))
	for i, a := range answers {
		questions[i] = model.QuizQuestion{
			ModuleID:       moduleID,
			Difficulty:     difficulty,
			QuestionNumber: i + 1,
			Question:       fmt.Sprintf("Soal %d", i+1),
			OptionA:        "A",
			OptionB:        "B",
			OptionC:        "C",
			OptionD:        "D",
			CorrectAnswer:  a,
		}
	}
	if len(questions) > 0 {
		if err := db.Create(&questions).Error; err != nil {
			tb.Fatalf("seed questions: %v", err)
		}
	}
	return questions
}

func SeedArtwork(tb testing.TB, db *gorm.DB, title string, required int) *model.Artwork {
	tb.Helper()
	a := &model.Artwork{Title: title, RequiredTinta: required}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed artwork: %v", err)
	}
	return a
}
