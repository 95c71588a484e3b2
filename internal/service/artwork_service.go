package service

import (
	"aksara_backend/internal/model"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/util"
	"aksara_backend/pkg/logger"
	"context"
	"errors"

	"go.uber.org/zap"
)

// ArtworkService 作品按 tinta 门槛解锁，选择作品不会扣除余额
type ArtworkService struct {
	ArtworkRepo *repository.ArtworkRepository
	UserRepo    *repository.UserRepository
}

func NewArtworkService(artworkRepo *repository.ArtworkRepository, userRepo *repository.UserRepository) *ArtworkService {
	return &ArtworkService{
		ArtworkRepo: artworkRepo,
		UserRepo:    userRepo,
	}
}

func (s *ArtworkService) ListArtworks(ctx context.Context, userID uint) ([]model.ArtworkWithStatus, error) {
	artworks, err := s.ArtworkRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := s.ArtworkRepo.FindUserArtworks(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := make(map[uint]model.UserArtwork, len(owned))
	for _, ua := range owned {
		status[ua.ArtworkID] = ua
	}

	list := make([]model.ArtworkWithStatus, 0, len(artworks))
	for _, a := range artworks {
		ua, unlocked := status[a.ID]
		list = append(list, model.ArtworkWithStatus{
			Artwork:    a,
			IsUnlocked: unlocked,
			IsActive:   unlocked && ua.IsActive,
		})
	}
	return list, nil
}

// SelectArtwork 余额达到门槛才能解锁，之后成为唯一的激活作品
func (s *ArtworkService) SelectArtwork(ctx context.Context, userID, artworkID uint) (*model.ArtworkWithStatus, error) {
	artwork, err := s.ArtworkRepo.FindByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	tinta, err := s.UserRepo.GetTinta(ctx, userID)
	if errors.Is(err, util.ErrUserNotFound) {
		return nil, util.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	if tinta < artwork.RequiredTinta {
		return nil, util.ErrInsufficientTinta
	}

	if err := s.ArtworkRepo.Activate(ctx, userID, artworkID); err != nil {
		return nil, err
	}

	logger.Log.Info("artwork selected", zap.Uint("userID", userID), zap.Uint("artworkID", artworkID))
	return &model.ArtworkWithStatus{Artwork: *artwork, IsUnlocked: true, IsActive: true}, nil
}
