package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	bookingDomain "github.com/carvia-mobility/service-rental/internal/domain/booking"
	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/database"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// Postgres error codes surfaced by the booking table's constraints.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CarID     int64     `gorm:"index;not null"`
	RenterID  int64     `gorm:"index;not null"`
	State     string    `gorm:"not null;size:20;index"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of
// BookingRepository. Every method joins the transaction carried by the
// context, falling back to the base connection outside one.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

// Get retrieves a booking by id, failing with a not-found error if absent.
func (r *GormBookingRepository) Get(ctx context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	b, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NewNotFoundError("booking", fmt.Sprintf("%d", id))
	}
	return b, nil
}

// Find retrieves a booking by id, returning nil if absent.
func (r *GormBookingRepository) Find(ctx context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking by id: %w", err)
	}
	return toDomainBooking(&model)
}

// GetAll retrieves all bookings ordered by id.
func (r *GormBookingRepository) GetAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.conn(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

// GetPage retrieves one page of bookings ordered by id, together with the
// total count.
func (r *GormBookingRepository) GetPage(ctx context.Context, offset, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.conn(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	if err := r.conn(ctx).Order("id").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings page: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = b
	}
	return bookings, total, nil
}

// Insert persists a new booking. The table's exclusion constraint is the
// authoritative backstop against overlapping live bookings; a violation is
// reported as an invalid-date-range error, mirroring the in-service check.
func (r *GormBookingRepository) Insert(ctx context.Context, data bookingDomain.NewBookingData) (*bookingDomain.Booking, error) {
	model := BookingModel{
		CarID:     int64(data.CarID),
		RenterID:  int64(data.RenterID),
		State:     string(data.State),
		StartDate: data.StartDate.UTC(),
		EndDate:   data.EndDate.UTC(),
	}

	if err := r.conn(ctx).Create(&model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return nil, domain.NewInvalidDateRangeError("car is already booked for the selected period")
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}
	return toDomainBooking(&model)
}

// Update persists the booking's current state.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	result := r.conn(ctx).
		Model(&BookingModel{}).
		Where("id = ?", int64(b.ID())).
		Update("state", string(b.State()))
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgExclusionViolation {
			return nil, domain.NewInvalidDateRangeError("car is already booked for the selected period")
		}
		return nil, fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewNotFoundError("booking", fmt.Sprintf("%d", b.ID()))
	}
	return r.Get(ctx, b.ID())
}

// Delete removes the booking.
func (r *GormBookingRepository) Delete(ctx context.Context, id bookingDomain.BookingID) error {
	result := r.conn(ctx).Where("id = ?", int64(id)).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("booking", fmt.Sprintf("%d", id))
	}
	return nil
}

// FindOverlapping returns a live booking for the car whose half-open range
// overlaps [startDate, endDate), or nil if none exists.
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, carID carDomain.CarID, startDate, endDate time.Time) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.conn(ctx).
		Where("car_id = ? AND state IN ? AND start_date < ? AND end_date > ?",
			int64(carID), liveStateStrings(), endDate.UTC(), startDate.UTC()).
		Order("start_date").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find overlapping booking: %w", err)
	}
	return toDomainBooking(&model)
}

// FindRenterBooking reports whether the renter has a live booking on the car.
func (r *GormBookingRepository) FindRenterBooking(ctx context.Context, renterID user.UserID, carID carDomain.CarID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&BookingModel{}).
		Where("renter_id = ? AND car_id = ? AND state IN ?",
			int64(renterID), int64(carID), liveStateStrings()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check renter booking: %w", err)
	}
	return count > 0, nil
}

// FindPendingByCarID retrieves the car's bookings still in the pending state.
func (r *GormBookingRepository) FindPendingByCarID(ctx context.Context, carID carDomain.CarID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.conn(ctx).
		Where("car_id = ? AND state = ?", int64(carID), string(bookingDomain.StatePending)).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

func liveStateStrings() []string {
	live := bookingDomain.LiveStates()
	states := make([]string, len(live))
	for i, s := range live {
		states[i] = string(s)
	}
	return states
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	state, err := bookingDomain.ParseBookingState(m.State)
	if err != nil {
		return nil, err
	}
	return bookingDomain.NewBooking(
		bookingDomain.BookingID(m.ID),
		carDomain.CarID(m.CarID),
		user.UserID(m.RenterID),
		state,
		m.StartDate,
		m.EndDate,
	)
}
