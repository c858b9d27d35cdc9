package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/commercialspace/backend/internal/adapter/nats"
	"github.com/commercialspace/backend/internal/adapter/storage/s3"
	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const natsSubjectUserRegistered = "user.registered"

// TokenIssuer mints identity tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *entity.User) (string, error)
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateProfileParams struct {
	Name     string
	ImageURL string
}

type UserService interface {
	Register(ctx context.Context, params RegisterParams) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, email string, params UpdateProfileParams) (*entity.User, error)
	UploadAvatar(ctx context.Context, email, fileName, contentType string, data []byte) (*entity.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	tokens    TokenIssuer
	storage   s3.PhotoStorage
	publisher nats.EventPublisher
	log       logger.Logger
}

func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer, storage s3.PhotoStorage, publisher nats.EventPublisher, log logger.Logger) UserService {
	return &userService{userRepo: userRepo, tokens: tokens, storage: storage, publisher: publisher, log: log}
}

func (s *userService) Register(ctx context.Context, params RegisterParams) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	role, err := entity.ParseRole(strings.ToUpper(params.Role))
	if err != nil {
		return nil, err
	}
	// Admin accounts are provisioned out of band, never via signup.
	if role == entity.RoleAdmin {
		return nil, fmt.Errorf("role %s cannot be self-assigned: %w", role, ErrForbidden)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	if exists {
		return nil, fmt.Errorf("email %s is taken: %w", email, repository.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := entity.NewUser(params.Name, email, string(hash), role)
	if err != nil {
		return nil, err
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.log.Infof("User %s registered with role %s", email, role)

	if s.publisher != nil {
		event := map[string]interface{}{
			"user_id":     user.ID,
			"email":       user.Email,
			"role":        string(user.Role),
			"occurred_at": time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, natsSubjectUserRegistered, event); err != nil {
			s.log.Errorf("Failed to publish %s for user %s: %v", natsSubjectUserRegistered, user.ID, err)
		}
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load user %s: %w", email, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warnf("Failed login attempt for %s", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token for %s: %w", email, err)
	}

	return user, token, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, email string, params UpdateProfileParams) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}

	if params.Name != "" {
		user.Name = params.Name
	}
	if params.ImageURL != "" {
		user.ImageURL = params.ImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, email, fileName, contentType string, data []byte) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}

	url, err := s.storage.Upload(ctx, fileName, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for %s: %w", user.ID, err)
	}

	user.ImageURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save avatar for %s: %w", user.ID, err)
	}

	s.log.Infof("User %s uploaded a new avatar", user.ID)
	return user, nil
}
