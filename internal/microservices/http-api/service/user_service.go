package service

import (
	"context"
	"errors"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, search string, p dto.PageParams) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, req dto.CreateUserDTO) (*dto.UserResponse, error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.UpdateUserDTO) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	// UpdateMe applies a self-service edit; the role field is ignored.
	UpdateMe(ctx context.Context, me *models.User, req dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	limits   config.Limits
}

func NewUserService(userRepo repository.UserRepository, limits config.Limits) UserService {
	return &userService{userRepo: userRepo, limits: limits}
}

func (s *userService) List(ctx context.Context, search string, p dto.PageParams) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(ctx, search, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return dto.MapPaginated(users, total, p, dto.UserFromModel), nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}
	user := req.ToModel()
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, uniqueUserError(err)
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(*user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req, s.userRepo.Update)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.find(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UpdateMe(ctx context.Context, me *models.User, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	req.Role = nil
	user := *me
	return s.apply(ctx, &user, req, s.userRepo.UpdateProfile)
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserDTO, save func(context.Context, *models.User) error) (*dto.UserResponse, error) {
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}
	req.ApplyTo(user)
	if err := save(ctx, user); err != nil {
		return nil, uniqueUserError(err)
	}
	resp := dto.UserFromModel(*user)
	return &resp, nil
}

func (s *userService) find(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
