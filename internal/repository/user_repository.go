package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/database"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"uniqueIndex;not null;size:200"`
	PasswordHash string `gorm:"not null;size:200;column:password_hash"`
	Role         string `gorm:"not null;size:20;default:'user'"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

// Get retrieves a user by id, failing with a not-found error if absent.
func (r *GormUserRepository) Get(ctx context.Context, id user.UserID) (*user.User, error) {
	u, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewNotFoundError("user", fmt.Sprintf("%d", id))
	}
	return u, nil
}

// Find retrieves a user by id, returning nil if absent.
func (r *GormUserRepository) Find(ctx context.Context, id user.UserID) (*user.User, error) {
	var model UserModel
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return toDomainUser(&model)
}

// FindByName retrieves a user by name, returning nil if absent.
func (r *GormUserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	var model UserModel
	if err := r.conn(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by name: %w", err)
	}
	return toDomainUser(&model)
}

// GetAll retrieves all users ordered by id.
func (r *GormUserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var models []UserModel
	if err := r.conn(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*user.User, len(models))
	for i, m := range models {
		u, err := toDomainUser(&m)
		if err != nil {
			return nil, err
		}
		users[i] = u
	}
	return users, nil
}

// Insert persists a new user.
func (r *GormUserRepository) Insert(ctx context.Context, name, passwordHash string, role user.Role) (*user.User, error) {
	model := UserModel{
		Name:         name,
		PasswordHash: passwordHash,
		Role:         string(role),
	}

	if err := r.conn(ctx).Create(&model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.NewConflictError("a user with this name already exists")
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return toDomainUser(&model)
}

func toDomainUser(m *UserModel) (*user.User, error) {
	return user.NewUser(
		user.UserID(m.ID),
		m.Name,
		m.PasswordHash,
		user.Role(m.Role),
	)
}
