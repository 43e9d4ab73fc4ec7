package application

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// CreateCarRequest holds the data needed to list a new car.
type CreateCarRequest struct {
	Name         string  `json:"name" binding:"required"`
	CarType      string  `json:"carType"`
	FuelType     string  `json:"fuelType"`
	Horsepower   int     `json:"horsepower"`
	LicensePlate *string `json:"licensePlate"`
	Info         string  `json:"info"`
}

// PatchCarRequest holds a partial car update. Nil fields are unchanged.
type PatchCarRequest struct {
	Name         *string `json:"name"`
	FuelType     *string `json:"fuelType"`
	Horsepower   *int    `json:"horsepower"`
	LicensePlate *string `json:"licensePlate"`
	Info         *string `json:"info"`
	State        *string `json:"state"`
}

// CarDTO is the response representation of a car.
type CarDTO struct {
	ID           int64   `json:"id"`
	OwnerID      int64   `json:"ownerId"`
	Name         string  `json:"name"`
	CarType      string  `json:"carType,omitempty"`
	FuelType     string  `json:"fuelType,omitempty"`
	Horsepower   int     `json:"horsepower,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
	Info         string  `json:"info,omitempty"`
	State        string  `json:"state"`
}

// CarService manages car listings. Booking admission reads car ownership
// through the same repository contract, so updates here stay consistent
// with booking access checks.
type CarService struct {
	repo           carDomain.CarRepository
	bookingService *BookingService
	tx             Transactor
	logger         *zap.Logger
}

// NewCarService creates a new CarService.
func NewCarService(
	repo carDomain.CarRepository,
	bookingService *BookingService,
	tx Transactor,
	logger *zap.Logger,
) *CarService {
	return &CarService{
		repo:           repo,
		bookingService: bookingService,
		tx:             tx,
		logger:         logger,
	}
}

// CreateCar lists a new car owned by the given user. License plates are
// unique across the platform.
func (s *CarService) CreateCar(ctx context.Context, ownerID user.UserID, req CreateCarRequest) (*CarDTO, error) {
	var created *carDomain.Car
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		if req.LicensePlate != nil && *req.LicensePlate != "" {
			existing, err := s.repo.FindByLicensePlate(txCtx, *req.LicensePlate)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.NewConflictError("a car with this license plate already exists")
			}
		}

		var err error
		created, err = s.repo.Insert(txCtx, carDomain.NewCarData{
			OwnerID:      ownerID,
			Name:         req.Name,
			CarType:      req.CarType,
			FuelType:     req.FuelType,
			Horsepower:   req.Horsepower,
			LicensePlate: req.LicensePlate,
			Info:         req.Info,
			State:        carDomain.StateAvailable,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("car listed",
		zap.Int64("car_id", int64(created.ID())),
		zap.Int64("owner_id", int64(created.OwnerID())),
	)

	result := toCarDTO(created)
	return &result, nil
}

// GetCar retrieves a car by id.
func (s *CarService) GetCar(ctx context.Context, id carDomain.CarID) (*CarDTO, error) {
	var found *carDomain.Car
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		found, err = s.repo.Get(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := toCarDTO(found)
	return &result, nil
}

// GetAllCars retrieves all listed cars.
func (s *CarService) GetAllCars(ctx context.Context) ([]CarDTO, error) {
	var cars []*carDomain.Car
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		cars, err = s.repo.GetAll(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c)
	}
	return dtos, nil
}

// PatchCar applies a partial update. The owner may change anything; a
// renter with a live booking on the car may change only its lock state.
func (s *CarService) PatchCar(ctx context.Context, id carDomain.CarID, actorID user.UserID, req PatchCarRequest) (*CarDTO, error) {
	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}

	var updated *carDomain.Car
	err = s.tx.Transactional(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		if existing.OwnerID() != actorID {
			isRenter, err := s.bookingService.repo.FindRenterBooking(txCtx, actorID, id)
			if err != nil {
				return err
			}
			if !isRenter || patch.TouchesNonState() {
				return domain.NewAccessDeniedError(
					formatID(int64(actorID)),
					"car "+formatID(int64(id)),
				)
			}
		}

		if patch.LicensePlate != nil && *patch.LicensePlate != "" {
			other, err := s.repo.FindByLicensePlate(txCtx, *patch.LicensePlate)
			if err != nil {
				return err
			}
			if other != nil && other.ID() != id {
				return domain.NewConflictError("a car with this license plate already exists")
			}
		}

		patched, err := existing.Apply(patch)
		if err != nil {
			return err
		}

		updated, err = s.repo.Update(txCtx, patched)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := toCarDTO(updated)
	return &result, nil
}

func toPatch(req PatchCarRequest) (carDomain.Patch, error) {
	patch := carDomain.Patch{
		Name:         req.Name,
		FuelType:     req.FuelType,
		Horsepower:   req.Horsepower,
		LicensePlate: req.LicensePlate,
		Info:         req.Info,
	}
	if req.State != nil {
		state := carDomain.CarState(*req.State)
		if !state.IsValid() {
			return carDomain.Patch{}, domain.NewFieldValidationError("state", "unrecognized car state: "+*req.State)
		}
		patch.State = &state
	}
	return patch, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toCarDTO(c *carDomain.Car) CarDTO {
	return CarDTO{
		ID:           int64(c.ID()),
		OwnerID:      int64(c.OwnerID()),
		Name:         c.Name(),
		CarType:      c.CarType(),
		FuelType:     c.FuelType(),
		Horsepower:   c.Horsepower(),
		LicensePlate: c.LicensePlate(),
		Info:         c.Info(),
		State:        string(c.State()),
	}
}
