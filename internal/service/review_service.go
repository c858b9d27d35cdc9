package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
)

type ReviewService interface {
	// Add records a rating and comment. Reviewers are not required to have
	// booked the property.
	Add(ctx context.Context, propertyID, reviewerEmail string, rating int, comment string) (*entity.Review, error)
	ListForProperty(ctx context.Context, propertyID string) ([]entity.Review, error)
	StatsForProperty(ctx context.Context, propertyID string) (*entity.ReviewStats, error)
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	log          logger.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	log logger.Logger,
) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, propertyRepo: propertyRepo, userRepo: userRepo, log: log}
}

func (s *reviewService) Add(ctx context.Context, propertyID, reviewerEmail string, rating int, comment string) (*entity.Review, error) {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	reviewer, err := s.userRepo.GetByEmail(ctx, strings.ToLower(reviewerEmail))
	if err != nil {
		return nil, fmt.Errorf("failed to load reviewer %s: %w", reviewerEmail, err)
	}

	review, err := entity.NewReview(propertyID, reviewer.Ref(), rating, comment)
	if err != nil {
		return nil, err
	}

	id, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.ID = id

	s.log.Infof("Review %s added on property %s by %s (rating %d)", review.ID, propertyID, reviewer.ID, rating)
	return review, nil
}

func (s *reviewService) ListForProperty(ctx context.Context, propertyID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for property %s: %w", propertyID, err)
	}
	return reviews, nil
}

func (s *reviewService) StatsForProperty(ctx context.Context, propertyID string) (*entity.ReviewStats, error) {
	stats, err := s.reviewRepo.StatsByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats for property %s: %w", propertyID, err)
	}
	return stats, nil
}
