package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/notifier"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type PasswordResetService interface {
	// RequestReset issues a reset token and emails the reset link. It
	// succeeds even for unknown emails so callers cannot enumerate accounts.
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.ResetTokenRepository
	dispatcher notifier.Dispatcher
	tokenTTL   time.Duration
	baseURL    string
	log        logger.Logger
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	tokenRepo repository.ResetTokenRepository,
	dispatcher notifier.Dispatcher,
	tokenTTL time.Duration,
	baseURL string,
	log logger.Logger,
) PasswordResetService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &passwordResetService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		dispatcher: dispatcher,
		tokenTTL:   tokenTTL,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Infof("Password reset requested for unknown email %s", email)
			return nil
		}
		return fmt.Errorf("failed to look up %s: %w", email, err)
	}

	token := uuid.New().String()
	if err := s.tokenRepo.Store(ctx, token, user.Email, s.tokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	s.dispatcher.Enqueue(notifier.Task{
		To:      user.Email,
		Subject: "Password Reset - Commercial Space",
		HTMLBody: fmt.Sprintf(
			"<h2>Hi %s,</h2><p>Click <a href=%q>here</a> to reset your password. The link expires in %s.</p><p>If you did not request this, ignore this email.</p>",
			user.Name, link, s.tokenTTL),
	})

	s.log.Infof("Password reset token issued for %s", user.Email)
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", entity.ErrValidation)
	}

	email, err := s.tokenRepo.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password for %s: %w", user.ID, err)
	}

	s.log.Infof("Password reset completed for %s", user.Email)
	return nil
}
