package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/database"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	OwnerID      int64   `gorm:"index;not null"`
	Name         string  `gorm:"not null;size:200"`
	CarType      string  `gorm:"size:100"`
	FuelType     string  `gorm:"size:50"`
	Horsepower   int     `gorm:""`
	LicensePlate *string `gorm:"uniqueIndex;size:20"`
	Info         string  `gorm:"size:1000"`
	State        string  `gorm:"not null;size:20"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of CarRepository.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

func (r *GormCarRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

// Get retrieves a car by id, failing with a not-found error if absent.
func (r *GormCarRepository) Get(ctx context.Context, id carDomain.CarID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("car", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find car by id: %w", err)
	}
	return toDomainCar(&model)
}

// GetAll retrieves all cars ordered by id.
func (r *GormCarRepository) GetAll(ctx context.Context) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.conn(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		c, err := toDomainCar(&m)
		if err != nil {
			return nil, err
		}
		cars[i] = c
	}
	return cars, nil
}

// Insert persists a new car.
func (r *GormCarRepository) Insert(ctx context.Context, data carDomain.NewCarData) (*carDomain.Car, error) {
	model := CarModel{
		OwnerID:      int64(data.OwnerID),
		Name:         data.Name,
		CarType:      data.CarType,
		FuelType:     data.FuelType,
		Horsepower:   data.Horsepower,
		LicensePlate: normalizePlate(data.LicensePlate),
		Info:         data.Info,
		State:        string(data.State),
	}

	if err := r.conn(ctx).Create(&model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.NewConflictError("a car with this license plate already exists")
		}
		return nil, fmt.Errorf("failed to insert car: %w", err)
	}
	return toDomainCar(&model)
}

// Update persists changes to an existing car.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) (*carDomain.Car, error) {
	updates := map[string]interface{}{
		"name":          c.Name(),
		"car_type":      c.CarType(),
		"fuel_type":     c.FuelType(),
		"horsepower":    c.Horsepower(),
		"license_plate": normalizePlate(c.LicensePlate()),
		"info":          c.Info(),
		"state":         string(c.State()),
	}

	result := r.conn(ctx).Model(&CarModel{}).Where("id = ?", int64(c.ID())).Updates(updates)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.NewConflictError("a car with this license plate already exists")
		}
		return nil, fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewNotFoundError("car", fmt.Sprintf("%d", c.ID()))
	}
	return r.Get(ctx, c.ID())
}

// FindByLicensePlate retrieves a car by license plate, returning nil if no
// car carries it.
func (r *GormCarRepository) FindByLicensePlate(ctx context.Context, licensePlate string) (*carDomain.Car, error) {
	var model CarModel
	if err := r.conn(ctx).Where("license_plate = ?", licensePlate).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find car by license plate: %w", err)
	}
	return toDomainCar(&model)
}

// normalizePlate stores empty license plates as NULL so the unique index
// ignores cars without one.
func normalizePlate(plate *string) *string {
	if plate == nil || *plate == "" {
		return nil
	}
	return plate
}

func toDomainCar(m *CarModel) (*carDomain.Car, error) {
	return carDomain.NewCar(
		carDomain.CarID(m.ID),
		user.UserID(m.OwnerID),
		m.Name,
		m.CarType,
		m.FuelType,
		m.Horsepower,
		m.LicensePlate,
		m.Info,
		carDomain.CarState(m.State),
	)
}
