package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/carvia-mobility/service-rental/internal/domain/booking"
	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// Transactor runs a function inside a single atomic transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Transactional(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookingEventPublisher announces booking lifecycle changes. Publishing is
// best-effort and must never fail the surrounding operation.
type BookingEventPublisher interface {
	BookingCreated(ctx context.Context, b *bookingDomain.Booking)
	BookingStateChanged(ctx context.Context, b *bookingDomain.Booking, from bookingDomain.BookingState)
	BookingCancelled(ctx context.Context, b *bookingDomain.Booking)
}

// CreateBookingRequest holds the data needed to create a new booking. The
// renter is always the authenticated actor and the state is always forced
// to PENDING; neither is caller-supplied.
type CreateBookingRequest struct {
	CarID     int64     `json:"carId" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// UpdateBookingRequest holds a requested state transition. State is a
// pointer so a missing field is distinguishable from an empty one.
type UpdateBookingRequest struct {
	State *string `json:"state"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"carId"`
	RenterID  int64     `json:"renterId"`
	State     string    `json:"state"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// BookingService orchestrates booking admission and lifecycle. Every
// operation executes inside one transaction; the overlap check, access
// check, transition check and persistence write are never split across
// transaction boundaries.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	carRepo   carDomain.CarRepository
	tx        Transactor
	publisher BookingEventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	carRepo carDomain.CarRepository,
	tx Transactor,
	publisher BookingEventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		carRepo:   carRepo,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking admits a new booking for the given renter. The date range
// must be strictly ordered and must not overlap a live booking on the same
// car; the new booking always starts in the PENDING state.
func (s *BookingService) CreateBooking(ctx context.Context, renterID user.UserID, req CreateBookingRequest) (*BookingDTO, error) {
	if !req.StartDate.Before(req.EndDate) {
		return nil, domain.NewInvalidDateRangeError("booking end date must be after the start date")
	}

	carID := carDomain.CarID(req.CarID)

	var created *bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		if _, err := s.carRepo.Get(txCtx, carID); err != nil {
			return err
		}

		conflict, err := s.repo.FindOverlapping(txCtx, carID, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if conflict != nil {
			return domain.NewInvalidDateRangeError("car is already booked for the selected period")
		}

		created, err = s.repo.Insert(txCtx, bookingDomain.NewBookingData{
			CarID:     carID,
			RenterID:  renterID,
			State:     bookingDomain.StatePending,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", int64(created.ID())),
		zap.Int64("car_id", int64(created.CarID())),
		zap.Int64("renter_id", int64(created.RenterID())),
	)
	s.publisher.BookingCreated(ctx, created)

	result := toBookingDTO(created)
	return &result, nil
}

// GetBooking retrieves a booking, enforcing view access: only the renter
// and the owner of the booked car may see it.
func (s *BookingService) GetBooking(ctx context.Context, id bookingDomain.BookingID, actorID user.UserID) (*BookingDTO, error) {
	var found *bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		b, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		bookedCar, err := s.carRepo.Get(txCtx, b.CarID())
		if err != nil {
			return err
		}

		if err := bookingDomain.AuthorizeView(b, actorID, bookedCar.OwnerID()); err != nil {
			return err
		}

		found = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := toBookingDTO(found)
	return &result, nil
}

// GetAllBookings retrieves every booking. The read is unrestricted and is
// exposed only on administrative surfaces.
func (s *BookingService) GetAllBookings(ctx context.Context) ([]BookingDTO, error) {
	var bookings []*bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.repo.GetAll(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos, nil
}

// GetBookingsPage retrieves one page of bookings. Page numbering starts
// at 1; out-of-range values fall back to the first page.
func (s *BookingService) GetBookingsPage(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var (
		bookings []*bookingDomain.Booking
		total    int64
	)
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		bookings, total, err = s.repo.GetPage(txCtx, (page-1)*limit, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateBooking applies a requested state transition on behalf of the
// actor. View access, mutate access and transition legality are all
// checked inside one transaction.
func (s *BookingService) UpdateBooking(ctx context.Context, id bookingDomain.BookingID, actorID user.UserID, req UpdateBookingRequest) (*BookingDTO, error) {
	if req.State == nil {
		return nil, domain.NewValidationError("booking state is invalid or contains unexpected data, please try again")
	}
	requested, err := bookingDomain.ParseBookingState(*req.State)
	if err != nil {
		return nil, domain.NewValidationError("booking state is invalid or contains unexpected data, please try again")
	}

	var (
		updated  *bookingDomain.Booking
		previous bookingDomain.BookingState
	)
	err = s.tx.Transactional(ctx, func(txCtx context.Context) error {
		b, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		bookedCar, err := s.carRepo.Get(txCtx, b.CarID())
		if err != nil {
			return err
		}

		if err := bookingDomain.AuthorizeView(b, actorID, bookedCar.OwnerID()); err != nil {
			return err
		}
		if err := bookingDomain.AuthorizeTransition(b, actorID, bookedCar.OwnerID(), requested); err != nil {
			return err
		}

		previous = b.State()
		if err := b.TransitionTo(requested); err != nil {
			return err
		}

		updated, err = s.repo.Update(txCtx, b)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking state changed",
		zap.Int64("booking_id", int64(updated.ID())),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.State())),
	)
	s.publisher.BookingStateChanged(ctx, updated, previous)

	result := toBookingDTO(updated)
	return &result, nil
}

// DeleteBooking cancels a booking. A rental already in progress cannot be
// cancelled.
func (s *BookingService) DeleteBooking(ctx context.Context, id bookingDomain.BookingID) error {
	var cancelled *bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		b, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		if b.State() == bookingDomain.StatePickedUp {
			return domain.NewConflictError("an in-progress rental cannot be cancelled")
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", int64(cancelled.ID())),
	)
	s.publisher.BookingCancelled(ctx, cancelled)
	return nil
}

// FindRenterBooking reports whether the renter has a live booking on the
// car. Used by the car service to let an active renter toggle a car's
// lock state.
func (s *BookingService) FindRenterBooking(ctx context.Context, renterID user.UserID, carID carDomain.CarID) (bool, error) {
	var has bool
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		var err error
		has, err = s.repo.FindRenterBooking(txCtx, renterID, carID)
		return err
	})
	return has, err
}

// CancelPendingForCar deletes all pending bookings for a car. Invoked when
// the car itself is removed from the platform.
func (s *BookingService) CancelPendingForCar(ctx context.Context, carID carDomain.CarID) (int, error) {
	var cancelled []*bookingDomain.Booking
	err := s.tx.Transactional(ctx, func(txCtx context.Context) error {
		pending, err := s.repo.FindPendingByCarID(txCtx, carID)
		if err != nil {
			return err
		}
		for _, b := range pending {
			if err := s.repo.Delete(txCtx, b.ID()); err != nil {
				return err
			}
		}
		cancelled = pending
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, b := range cancelled {
		s.publisher.BookingCancelled(ctx, b)
	}
	return len(cancelled), nil
}

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:        int64(b.ID()),
		CarID:     int64(b.CarID()),
		RenterID:  int64(b.RenterID()),
		State:     string(b.State()),
		StartDate: b.StartDate(),
		EndDate:   b.EndDate(),
	}
}
