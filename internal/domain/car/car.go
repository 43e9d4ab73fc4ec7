package car

import (
	"fmt"

	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// CarID identifies a car. It is a distinct type so car ids cannot be
// confused with user or booking ids.
type CarID int64

// CarState describes whether a car is available for new bookings.
type CarState string

const (
	StateAvailable CarState = "AVAILABLE"
	StateLocked    CarState = "LOCKED"
)

// IsValid returns true if the state is recognized.
func (s CarState) IsValid() bool {
	return s == StateAvailable || s == StateLocked
}

// Car is the listed-vehicle entity.
type Car struct {
	id           CarID
	ownerID      user.UserID
	name         string
	carType      string
	fuelType     string
	horsepower   int
	licensePlate *string
	info         string
	state        CarState
}

// NewCar constructs a Car, validating every property.
func NewCar(
	id CarID,
	ownerID user.UserID,
	name string,
	carType string,
	fuelType string,
	horsepower int,
	licensePlate *string,
	info string,
	state CarState,
) (*Car, error) {
	if id <= 0 {
		return nil, domain.NewFieldValidationError("id", "must be a positive integer")
	}
	if ownerID <= 0 {
		return nil, domain.NewFieldValidationError("ownerId", "must be a positive integer")
	}
	if name == "" {
		return nil, domain.NewFieldValidationError("name", "must not be empty")
	}
	if horsepower < 0 {
		return nil, domain.NewFieldValidationError("horsepower", "must not be negative")
	}
	if !state.IsValid() {
		return nil, domain.NewFieldValidationError("state", fmt.Sprintf("unrecognized car state: %s", state))
	}
	return &Car{
		id:           id,
		ownerID:      ownerID,
		name:         name,
		carType:      carType,
		fuelType:     fuelType,
		horsepower:   horsepower,
		licensePlate: licensePlate,
		info:         info,
		state:        state,
	}, nil
}

// ID returns the car's identifier.
func (c *Car) ID() CarID { return c.id }

// OwnerID returns the id of the user who listed the car.
func (c *Car) OwnerID() user.UserID { return c.ownerID }

// Name returns the car's display name.
func (c *Car) Name() string { return c.name }

// CarType returns the car's type label.
func (c *Car) CarType() string { return c.carType }

// FuelType returns the car's fuel type.
func (c *Car) FuelType() string { return c.fuelType }

// Horsepower returns the car's horsepower.
func (c *Car) Horsepower() int { return c.horsepower }

// LicensePlate returns the car's license plate, or nil if unset.
func (c *Car) LicensePlate() *string { return c.licensePlate }

// Info returns free-form information about the car.
func (c *Car) Info() string { return c.info }

// State returns the car's availability state.
func (c *Car) State() CarState { return c.state }

// Patch holds the mutable car properties for an update. Nil fields are
// left unchanged.
type Patch struct {
	Name         *string
	FuelType     *string
	Horsepower   *int
	LicensePlate *string
	Info         *string
	State        *CarState
}

// TouchesNonState reports whether the patch changes anything besides the
// car's state.
func (p Patch) TouchesNonState() bool {
	return p.Name != nil || p.FuelType != nil || p.Horsepower != nil ||
		p.LicensePlate != nil || p.Info != nil
}

// Apply returns a copy of the car with the patch applied.
func (c *Car) Apply(p Patch) (*Car, error) {
	updated := *c
	if p.Name != nil {
		updated.name = *p.Name
	}
	if p.FuelType != nil {
		updated.fuelType = *p.FuelType
	}
	if p.Horsepower != nil {
		updated.horsepower = *p.Horsepower
	}
	if p.LicensePlate != nil {
		updated.licensePlate = p.LicensePlate
	}
	if p.Info != nil {
		updated.info = *p.Info
	}
	if p.State != nil {
		if !p.State.IsValid() {
			return nil, domain.NewFieldValidationError("state", fmt.Sprintf("unrecognized car state: %s", *p.State))
		}
		updated.state = *p.State
	}
	if updated.name == "" {
		return nil, domain.NewFieldValidationError("name", "must not be empty")
	}
	if updated.horsepower < 0 {
		return nil, domain.NewFieldValidationError("horsepower", "must not be negative")
	}
	return &updated, nil
}
