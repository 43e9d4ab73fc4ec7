package booking

import (
	"context"
	"time"

	"github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
)

// NewBookingData holds the properties of a booking before the store assigns
// its id.
type NewBookingData struct {
	CarID     car.CarID
	RenterID  user.UserID
	State     BookingState
	StartDate time.Time
	EndDate   time.Time
}

// BookingRepository defines the persistence contract for bookings. All
// methods join the transaction carried by the context, if any.
type BookingRepository interface {
	// Get retrieves a booking by id, failing with a not-found error if
	// absent.
	Get(ctx context.Context, id BookingID) (*Booking, error)

	// Find retrieves a booking by id, returning nil if absent.
	Find(ctx context.Context, id BookingID) (*Booking, error)

	// GetAll retrieves all bookings.
	GetAll(ctx context.Context) ([]*Booking, error)

	// GetPage retrieves one page of bookings together with the total count.
	GetPage(ctx context.Context, offset, limit int) ([]*Booking, int64, error)

	// Insert persists a new booking and returns it with its assigned id.
	Insert(ctx context.Context, data NewBookingData) (*Booking, error)

	// Update persists the booking's current state.
	Update(ctx context.Context, b *Booking) (*Booking, error)

	// Delete removes the booking.
	Delete(ctx context.Context, id BookingID) error

	// FindOverlapping returns a live booking for the car whose range
	// overlaps [startDate, endDate), or nil if none exists.
	FindOverlapping(ctx context.Context, carID car.CarID, startDate, endDate time.Time) (*Booking, error)

	// FindRenterBooking reports whether the renter has a live booking on
	// the car.
	FindRenterBooking(ctx context.Context, renterID user.UserID, carID car.CarID) (bool, error)

	// FindPendingByCarID retrieves the car's bookings still in the pending
	// state.
	FindPendingByCarID(ctx context.Context, carID car.CarID) ([]*Booking, error)
}
