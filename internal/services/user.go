package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type CreateUserParams struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type UpdateUserParams struct {
	Name *string
	Role *string
}

type UserService interface {
	ListUsers(ctx context.Context) ([]*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*types.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*types.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) ListUsers(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.List(ctx, nil)
}

func (us *userService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	rows, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (us *userService) CreateUser(ctx context.Context, params CreateUserParams) (*types.User, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" || params.Password == "" || params.Name == "" {
		return nil, fmt.Errorf("email, password, and name are required")
	}
	exists, err := us.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already registered")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := params.Role
	if role == "" {
		role = "member"
	}
	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		Name:     params.Name,
		Role:     role,
	}
	if _, err := us.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*types.User, error) {
	updates := map[string]interface{}{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Role != nil {
		updates["role"] = *params.Role
	}
	if err := us.userRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return us.GetUser(ctx, id)
}

func (us *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return us.userRepo.Delete(ctx, nil, id)
}
