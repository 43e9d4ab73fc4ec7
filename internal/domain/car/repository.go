package car

import (
	"context"

	"github.com/carvia-mobility/service-rental/internal/domain/user"
)

// NewCarData holds the properties of a car before the store assigns its id.
type NewCarData struct {
	OwnerID      user.UserID
	Name         string
	CarType      string
	FuelType     string
	Horsepower   int
	LicensePlate *string
	Info         string
	State        CarState
}

// CarRepository defines the persistence contract for cars. All methods join
// the transaction carried by the context, if any.
type CarRepository interface {
	// Get retrieves a car by id, failing with a not-found error if absent.
	Get(ctx context.Context, id CarID) (*Car, error)

	// GetAll retrieves all cars.
	GetAll(ctx context.Context) ([]*Car, error)

	// Insert persists a new car and returns it with its assigned id.
	Insert(ctx context.Context, data NewCarData) (*Car, error)

	// Update persists changes to an existing car.
	Update(ctx context.Context, c *Car) (*Car, error)

	// FindByLicensePlate retrieves a car by license plate, returning nil if
	// no car carries it.
	FindByLicensePlate(ctx context.Context, licensePlate string) (*Car, error)
}
