package repository

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.conflictOf(ctx, user)
	}
	return err
}

// conflictOf 唯一索引冲突时查出是邮箱还是用户名被占用
func (r *UserRepository) conflictOf(ctx context.Context, user *model.User) error {
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return util.ErrEmailRegistered
	}
	if user.Username != nil {
		if _, err := r.FindByUsername(ctx, *user.Username); err == nil {
			return util.ErrUsernameTaken
		}
	}
	return util.ErrEmailRegistered
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return &user, err
}

// UpdateFields 只更新给定列，tinta 不允许通过这里修改
func (r *UserRepository) UpdateFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	delete(fields, "tinta")
	if len(fields) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).
		Error
}

// IncrementTinta 余额只增不减，delta <= 0 时不做任何事
func (r *UserRepository) IncrementTinta(ctx context.Context, userID uint, delta int) error {
	if delta <= 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("tinta", gorm.Expr("tinta + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetTinta(ctx context.Context, userID uint) (int, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Select("id", "tinta").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrUserNotFound
	}
	return user.Tinta, err
}

// FindByIDs 只返回排行需要的列，顺序不保证
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).
		Select("id", "full_name", "username", "tinta").
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

// FindTopByTinta limit <= 0 时返回全部
func (r *UserRepository) FindTopByTinta(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	q := r.DB.WithContext(ctx).
		Select("id", "full_name", "username", "tinta").
		Order("tinta DESC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// CountAhead 排在该用户前面的人数（tinta 更高，或相同但 id 更小）
func (r *UserRepository) CountAhead(ctx context.Context, userID uint, tinta int) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("tinta > ? OR (tinta = ? AND id < ?)", tinta, tinta, userID).
		Count(&count).Error
	return count, err
}
