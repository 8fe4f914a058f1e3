package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"milkdelivery/internal/cache"
	"milkdelivery/internal/dto"
	apperrors "milkdelivery/internal/errors"
	"milkdelivery/internal/metrics"
	"milkdelivery/internal/model"
	"milkdelivery/internal/repository"
)

// unusablePasswordPrefix marks a password hash that no password can match.
const unusablePasswordPrefix = "!"

// UserService exposes user operations. Users are never hard-deleted.
type UserService interface {
	CreateUser(ctx context.Context, payload *dto.UserPayload) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, query dto.UserQuery) ([]model.User, int64, error)
	UpdateUser(ctx context.Context, id uint, payload *dto.UserPayload, partial bool) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	log   writeLog
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, recorder metrics.WriteRecorder) UserService {
	return &userService{repo: repo, cache: cache, log: newWriteLog(recorder)}
}

// CreateUser is the administrative create: the account gets an unusable password.
func (s *userService) CreateUser(ctx context.Context, payload *dto.UserPayload) (*model.User, error) {
	user := &model.User{
		PasswordHash: unusablePasswordPrefix + uuid.NewString(),
		IsActive:     true,
	}
	err := payload.Validate(false)
	if err == nil {
		payload.ApplyTo(user)
		err = s.repo.Create(ctx, user)
	}
	s.log.done("user", "create", logrus.Fields{"user_id": user.ID}, err)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, cache.UserKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.SetJSON(ctx, cache.UserKey(id), user, cache.DefaultTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, query dto.UserQuery) ([]model.User, int64, error) {
	if err := query.Normalize(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repository.UserFilter{
		Search:    query.Search,
		IsPartner: query.IsPartner,
		Page:      repository.Page{Offset: query.Offset(), Limit: query.PageSize},
	})
}

// UpdateUser applies a profile update; credentials are not writable here.
func (s *userService) UpdateUser(ctx context.Context, id uint, payload *dto.UserPayload, partial bool) (*model.User, error) {
	var updated *model.User
	err := payload.Validate(partial)
	if err == nil {
		err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.UserRepository) error {
			user, err := tx.FindByID(ctx, id)
			if err != nil {
				return err
			}
			payload.ApplyTo(user)
			if err := tx.Update(ctx, user); err != nil {
				return err
			}
			updated = user
			return nil
		})
		err = notFound(err, apperrors.ErrUserNotFound)
	}
	s.log.done("user", "update", logrus.Fields{"user_id": id, "partial": partial}, err)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.UserKey(id))
	return updated, nil
}
