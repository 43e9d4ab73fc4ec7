package booking

import (
	"fmt"
	"time"

	"github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// BookingID identifies a booking. It is a distinct type so booking ids
// cannot be confused with car or user ids.
type BookingID int64

// Booking is the aggregate root for the booking domain. All fields except
// the state are immutable after construction; the state changes only
// through TransitionTo.
type Booking struct {
	id        BookingID
	carID     car.CarID
	renterID  user.UserID
	state     BookingState
	startDate time.Time
	endDate   time.Time
}

// NewBooking constructs a Booking from raw properties, validating every
// field. An invalid property fails with a validation error naming the
// offending field.
func NewBooking(
	id BookingID,
	carID car.CarID,
	renterID user.UserID,
	state BookingState,
	startDate time.Time,
	endDate time.Time,
) (*Booking, error) {
	if id <= 0 {
		return nil, domain.NewFieldValidationError("id", "must be a positive integer")
	}
	if carID <= 0 {
		return nil, domain.NewFieldValidationError("carId", "must be a positive integer")
	}
	if renterID <= 0 {
		return nil, domain.NewFieldValidationError("renterId", "must be a positive integer")
	}
	if !state.IsValid() {
		return nil, domain.NewFieldValidationError("state", fmt.Sprintf("unrecognized booking state: %s", state))
	}
	if startDate.IsZero() {
		return nil, domain.NewFieldValidationError("startDate", "must be a valid timestamp")
	}
	if endDate.IsZero() {
		return nil, domain.NewFieldValidationError("endDate", "must be a valid timestamp")
	}
	if !startDate.Before(endDate) {
		return nil, domain.NewFieldValidationError("endDate", "must be after startDate")
	}
	return &Booking{
		id:        id,
		carID:     carID,
		renterID:  renterID,
		state:     state,
		startDate: startDate,
		endDate:   endDate,
	}, nil
}

// ID returns the booking's identifier.
func (b *Booking) ID() BookingID { return b.id }

// CarID returns the id of the booked car.
func (b *Booking) CarID() car.CarID { return b.carID }

// RenterID returns the id of the user who requested the booking.
func (b *Booking) RenterID() user.UserID { return b.renterID }

// State returns the booking's current lifecycle state.
func (b *Booking) State() BookingState { return b.state }

// StartDate returns the inclusive start of the booked range.
func (b *Booking) StartDate() time.Time { return b.startDate }

// EndDate returns the exclusive end of the booked range.
func (b *Booking) EndDate() time.Time { return b.endDate }

// IsLive returns true if the booking still occupies the car's calendar.
func (b *Booking) IsLive() bool { return b.state.IsLive() }

// TransitionTo moves the booking to the requested state. The transition
// must be legal per the state machine; anything else fails with an invalid
// state error carrying the booking id and both states.
func (b *Booking) TransitionTo(requested BookingState) error {
	if !b.state.CanTransitionTo(requested) {
		return domain.NewInvalidStateError(
			fmt.Sprintf("%d", b.id),
			string(b.state),
			string(requested),
		)
	}
	b.state = requested
	return nil
}
