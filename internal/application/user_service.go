package application

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/auth"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// RegisterRequest holds the data needed to create a new account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// TokenPairDTO carries issued access and refresh tokens.
type TokenPairDTO struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         UserDTO `json:"user"`
}

// UserService manages account registration and authentication.
type UserService struct {
	repo       user.UserRepository
	tx         Transactor
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	repo user.UserRepository,
	tx Transactor,
	jwtManager *auth.JWTManager,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		repo:       repo,
		tx:         tx,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a new account with the default user role.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var created *user.User
	err = s.tx.Transactional(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByName(txCtx, req.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflictError("a user with this name already exists")
		}

		created, err = s.repo.Insert(txCtx, req.Name, string(hash), user.RoleUser)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", int64(created.ID())),
	)

	result := toUserDTO(created)
	return &result, nil
}

// Login verifies credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*TokenPairDTO, error) {
	var found *user.User
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.repo.FindByName(txCtx, req.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash()), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(int64(found.ID()), found.Name(), string(found.Role()))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(int64(found.ID()), found.Name(), string(found.Role()))
	if err != nil {
		return nil, err
	}

	return &TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserDTO(found),
	}, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id user.UserID) (*UserDTO, error) {
	var found *user.User
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.repo.Get(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := toUserDTO(found)
	return &result, nil
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:   int64(u.ID()),
		Name: u.Name(),
		Role: string(u.Role()),
	}
}
