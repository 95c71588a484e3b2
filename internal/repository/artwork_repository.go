package repository

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArtworkRepository struct {
	DB *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{DB: db}
}

func (r *ArtworkRepository) FindAll(ctx context.Context) ([]model.Artwork, error) {
	var artworks []model.Artwork
	err := r.DB.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("id ASC").
		Find(&artworks).Error
	return artworks, err
}

func (r *ArtworkRepository) FindByID(ctx context.Context, id uint) (*model.Artwork, error) {
	var artwork model.Artwork
	err := r.DB.WithContext(ctx).First(&artwork, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrArtworkNotFound
	}
	return &artwork, err
}

func (r *ArtworkRepository) FindUserArtworks(ctx context.Context, userID uint) ([]model.UserArtwork, error) {
	var list []model.UserArtwork
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

// Activate 解锁（若尚未解锁）并设为唯一的激活作品
func (r *ArtworkRepository) Activate(ctx context.Context, userID, artworkID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unlock := &model.UserArtwork{UserID: userID, ArtworkID: artworkID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(unlock).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.UserArtwork{}).
			Where("user_id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Model(&model.UserArtwork{}).
			Where("user_id = ? AND artwork_id = ?", userID, artworkID).
			Update("is_active", true).Error
	})
}
