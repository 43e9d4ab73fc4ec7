package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/carvia-mobility/service-rental/internal/domain/booking"
	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

type passthroughTx struct{}

func (passthroughTx) Transactional(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	nextID int64
	order  []bookingDomain.BookingID
	items  map[bookingDomain.BookingID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		nextID: 1,
		items:  make(map[bookingDomain.BookingID]*bookingDomain.Booking),
	}
}

func (r *fakeBookingRepo) Get(_ context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", fmt.Sprintf("%d", id))
	}
	return b, nil
}

func (r *fakeBookingRepo) Find(_ context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	return r.items[id], nil
}

func (r *fakeBookingRepo) GetAll(_ context.Context) ([]*bookingDomain.Booking, error) {
	out := make([]*bookingDomain.Booking, 0, len(r.order))
	for _, id := range r.order {
		if b, ok := r.items[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetPage(ctx context.Context, offset, limit int) ([]*bookingDomain.Booking, int64, error) {
	all, _ := r.GetAll(ctx)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeBookingRepo) Insert(_ context.Context, data bookingDomain.NewBookingData) (*bookingDomain.Booking, error) {
	id := bookingDomain.BookingID(r.nextID)
	r.nextID++
	b, err := bookingDomain.NewBooking(id, data.CarID, data.RenterID, data.State, data.StartDate, data.EndDate)
	if err != nil {
		return nil, err
	}
	r.items[id] = b
	r.order = append(r.order, id)
	return b, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	if _, ok := r.items[b.ID()]; !ok {
		return nil, domain.NewNotFoundError("booking", fmt.Sprintf("%d", b.ID()))
	}
	r.items[b.ID()] = b
	return b, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id bookingDomain.BookingID) error {
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("booking", fmt.Sprintf("%d", id))
	}
	delete(r.items, id)
	return nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, carID carDomain.CarID, startDate, endDate time.Time) (*bookingDomain.Booking, error) {
	var candidates []*bookingDomain.Booking
	for _, id := range r.order {
		if b, ok := r.items[id]; ok && b.CarID() == carID {
			candidates = append(candidates, b)
		}
	}
	return bookingDomain.FindConflict(candidates, startDate, endDate), nil
}

func (r *fakeBookingRepo) FindRenterBooking(_ context.Context, renterID user.UserID, carID carDomain.CarID) (bool, error) {
	for _, b := range r.items {
		if b.RenterID() == renterID && b.CarID() == carID && b.IsLive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindPendingByCarID(_ context.Context, carID carDomain.CarID) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, id := range r.order {
		if b, ok := r.items[id]; ok && b.CarID() == carID && b.State() == bookingDomain.StatePending {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeCarRepo struct {
	items map[carDomain.CarID]*carDomain.Car
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{items: make(map[carDomain.CarID]*carDomain.Car)}
}

func (r *fakeCarRepo) Get(_ context.Context, id carDomain.CarID) (*carDomain.Car, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("car", fmt.Sprintf("%d", id))
	}
	return c, nil
}

func (r *fakeCarRepo) GetAll(_ context.Context) ([]*carDomain.Car, error) {
	out := make([]*carDomain.Car, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCarRepo) Insert(_ context.Context, data carDomain.NewCarData) (*carDomain.Car, error) {
	id := carDomain.CarID(len(r.items) + 1)
	c, err := carDomain.NewCar(id, data.OwnerID, data.Name, data.CarType, data.FuelType,
		data.Horsepower, data.LicensePlate, data.Info, data.State)
	if err != nil {
		return nil, err
	}
	r.items[id] = c
	return c, nil
}

func (r *fakeCarRepo) Update(_ context.Context, c *carDomain.Car) (*carDomain.Car, error) {
	r.items[c.ID()] = c
	return c, nil
}

func (r *fakeCarRepo) FindByLicensePlate(_ context.Context, plate string) (*carDomain.Car, error) {
	for _, c := range r.items {
		if c.LicensePlate() != nil && *c.LicensePlate() == plate {
			return c, nil
		}
	}
	return nil, nil
}

type recordingPublisher struct {
	created   []int64
	changed   []string
	cancelled []int64
}

func (p *recordingPublisher) BookingCreated(_ context.Context, b *bookingDomain.Booking) {
	p.created = append(p.created, int64(b.ID()))
}

func (p *recordingPublisher) BookingStateChanged(_ context.Context, b *bookingDomain.Booking, from bookingDomain.BookingState) {
	p.changed = append(p.changed, fmt.Sprintf("%d:%s->%s", b.ID(), from, b.State()))
}

func (p *recordingPublisher) BookingCancelled(_ context.Context, b *bookingDomain.Booking) {
	p.cancelled = append(p.cancelled, int64(b.ID()))
}

const (
	fxOwnerID  user.UserID = 1
	fxRenterID user.UserID = 5
	fxOtherID  user.UserID = 99
	fxCarID                = carDomain.CarID(1)
)

type bookingFixture struct {
	service   *BookingService
	repo      *fakeBookingRepo
	cars      *fakeCarRepo
	publisher *recordingPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	cars := newFakeCarRepo()
	_, err := cars.Insert(context.Background(), carDomain.NewCarData{
		OwnerID:    fxOwnerID,
		Name:       "Fiat Punto",
		CarType:    "compact",
		FuelType:   "petrol",
		Horsepower: 75,
		State:      carDomain.StateAvailable,
	})
	require.NoError(t, err)

	repo := newFakeBookingRepo()
	publisher := &recordingPublisher{}
	service := NewBookingService(repo, cars, passthroughTx{}, publisher, zap.NewNop())
	return &bookingFixture{service: service, repo: repo, cars: cars, publisher: publisher}
}

func dates(startDay, endDay int) (time.Time, time.Time) {
	return time.Date(2026, 1, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, endDay, 0, 0, 0, 0, time.UTC)
}

func (f *bookingFixture) create(t *testing.T, renterID user.UserID, startDay, endDay int) *BookingDTO {
	t.Helper()
	start, end := dates(startDay, endDay)
	dto, err := f.service.CreateBooking(context.Background(), renterID, CreateBookingRequest{
		CarID:     int64(fxCarID),
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	return dto
}

func strPtr(s string) *string { return &s }

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	dto := f.create(t, fxRenterID, 12, 14)

	assert.Equal(t, int64(1), dto.ID)
	assert.Equal(t, int64(fxCarID), dto.CarID)
	assert.Equal(t, int64(fxRenterID), dto.RenterID)
	assert.Equal(t, string(bookingDomain.StatePending), dto.State)
	assert.Equal(t, []int64{1}, f.publisher.created)
}

func TestCreateBooking_RejectsUnorderedDates(t *testing.T) {
	f := newBookingFixture(t)
	start, end := dates(14, 12)

	for _, req := range []CreateBookingRequest{
		{CarID: int64(fxCarID), StartDate: start, EndDate: end},
		{CarID: int64(fxCarID), StartDate: start, EndDate: start},
	} {
		_, err := f.service.CreateBooking(context.Background(), fxRenterID, req)

		var rangeErr *domain.InvalidDateRangeError
		require.True(t, errors.As(err, &rangeErr))
	}
	assert.Empty(t, f.repo.items)
	assert.Empty(t, f.publisher.created)
}

func TestCreateBooking_UnknownCar(t *testing.T) {
	f := newBookingFixture(t)
	start, end := dates(12, 14)

	_, err := f.service.CreateBooking(context.Background(), fxRenterID, CreateBookingRequest{
		CarID:     404,
		StartDate: start,
		EndDate:   end,
	})

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "car", notFound.Resource)
}

func TestCreateBooking_RejectsOverlap(t *testing.T) {
	f := newBookingFixture(t)
	f.create(t, fxRenterID, 12, 14)

	start, end := dates(13, 16)
	_, err := f.service.CreateBooking(context.Background(), fxOtherID, CreateBookingRequest{
		CarID:     int64(fxCarID),
		StartDate: start,
		EndDate:   end,
	})

	var rangeErr *domain.InvalidDateRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Len(t, f.repo.items, 1)
}

func TestCreateBooking_BackToBackAllowed(t *testing.T) {
	f := newBookingFixture(t)
	f.create(t, fxRenterID, 10, 15)

	dto := f.create(t, fxOtherID, 15, 20)
	assert.Equal(t, string(bookingDomain.StatePending), dto.State)
}

func TestCreateBooking_DeclinedDoesNotBlock(t *testing.T) {
	f := newBookingFixture(t)
	first := f.create(t, fxRenterID, 12, 14)

	decline := string(bookingDomain.StateDeclined)
	_, err := f.service.UpdateBooking(context.Background(), bookingDomain.BookingID(first.ID), fxOwnerID,
		UpdateBookingRequest{State: &decline})
	require.NoError(t, err)

	dto := f.create(t, fxOtherID, 12, 14)
	assert.Equal(t, string(bookingDomain.StatePending), dto.State)
}

func TestUpdateBooking_Lifecycle(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)
	id := bookingDomain.BookingID(created.ID)

	transition := func(actor user.UserID, state bookingDomain.BookingState) (*BookingDTO, error) {
		s := string(state)
		return f.service.UpdateBooking(context.Background(), id, actor, UpdateBookingRequest{State: &s})
	}

	dto, err := transition(fxOwnerID, bookingDomain.StateAccepted)
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StateAccepted), dto.State)

	dto, err = transition(fxRenterID, bookingDomain.StatePickedUp)
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatePickedUp), dto.State)

	dto, err = transition(fxOwnerID, bookingDomain.StateReturned)
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StateReturned), dto.State)

	assert.Equal(t, []string{
		"1:PENDING->ACCEPTED",
		"1:ACCEPTED->PICKED_UP",
		"1:PICKED_UP->RETURNED",
	}, f.publisher.changed)
}

func TestUpdateBooking_IllegalTransition(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)
	id := bookingDomain.BookingID(created.ID)

	s := string(bookingDomain.StateAccepted)
	_, err := f.service.UpdateBooking(context.Background(), id, fxOwnerID, UpdateBookingRequest{State: &s})
	require.NoError(t, err)

	// Accepted bookings cannot go back to pending.
	back := string(bookingDomain.StatePending)
	_, err = f.service.UpdateBooking(context.Background(), id, fxOwnerID, UpdateBookingRequest{State: &back})

	var stateErr *domain.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, string(bookingDomain.StateAccepted), stateErr.From)
	assert.Equal(t, string(bookingDomain.StatePending), stateErr.To)

	stored, err := f.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StateAccepted, stored.State())
}

func TestUpdateBooking_RenterCannotAccept(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)

	s := string(bookingDomain.StateAccepted)
	_, err := f.service.UpdateBooking(context.Background(), bookingDomain.BookingID(created.ID), fxRenterID,
		UpdateBookingRequest{State: &s})

	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Empty(t, f.publisher.changed)
}

func TestUpdateBooking_MissingOrGarbageState(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)
	id := bookingDomain.BookingID(created.ID)

	garbage := "FLYING"
	for _, req := range []UpdateBookingRequest{
		{State: nil},
		{State: &garbage},
	} {
		_, err := f.service.UpdateBooking(context.Background(), id, fxOwnerID, req)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
	}
}

func TestGetBooking_Access(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)
	id := bookingDomain.BookingID(created.ID)

	for _, actor := range []user.UserID{fxRenterID, fxOwnerID} {
		dto, err := f.service.GetBooking(context.Background(), id, actor)
		require.NoError(t, err)
		assert.Equal(t, created.ID, dto.ID)
	}

	_, err := f.service.GetBooking(context.Background(), id, fxOtherID)
	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
}

func TestGetBooking_NotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.GetBooking(context.Background(), 404, fxRenterID)

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestDeleteBooking(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)
	id := bookingDomain.BookingID(created.ID)

	require.NoError(t, f.service.DeleteBooking(context.Background(), id))
	assert.Empty(t, f.repo.items)
	assert.Equal(t, []int64{created.ID}, f.publisher.cancelled)
}

func TestDeleteBooking_InProgressRejected(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, fxRenterID, 12, 14)
	id := bookingDomain.BookingID(created.ID)

	for _, state := range []bookingDomain.BookingState{bookingDomain.StateAccepted, bookingDomain.StatePickedUp} {
		s := string(state)
		actor := fxOwnerID
		if state == bookingDomain.StatePickedUp {
			actor = fxRenterID
		}
		_, err := f.service.UpdateBooking(context.Background(), id, actor, UpdateBookingRequest{State: &s})
		require.NoError(t, err)
	}

	err := f.service.DeleteBooking(context.Background(), id)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Len(t, f.repo.items, 1)
	assert.Empty(t, f.publisher.cancelled)
}

func TestFindRenterBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.create(t, fxRenterID, 12, 14)

	has, err := f.service.FindRenterBooking(context.Background(), fxRenterID, fxCarID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = f.service.FindRenterBooking(context.Background(), fxOtherID, fxCarID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGetBookingsPage(t *testing.T) {
	f := newBookingFixture(t)
	f.create(t, fxRenterID, 10, 12)
	f.create(t, fxOtherID, 12, 14)
	f.create(t, fxRenterID, 14, 16)

	page, err := f.service.GetBookingsPage(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Items[0].ID)

	page, err = f.service.GetBookingsPage(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Items[0].ID)

	// Nonsense paging values fall back to defaults.
	page, err = f.service.GetBookingsPage(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Len(t, page.Items, 3)
}

func TestCancelPendingForCar(t *testing.T) {
	f := newBookingFixture(t)
	f.create(t, fxRenterID, 10, 12)
	second := f.create(t, fxOtherID, 12, 14)
	f.create(t, fxRenterID, 14, 16)

	s := string(bookingDomain.StateAccepted)
	_, err := f.service.UpdateBooking(context.Background(), bookingDomain.BookingID(second.ID), fxOwnerID,
		UpdateBookingRequest{State: &s})
	require.NoError(t, err)

	count, err := f.service.CancelPendingForCar(context.Background(), fxCarID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []int64{1, 3}, f.publisher.cancelled)

	// The accepted booking survives.
	remaining, err := f.repo.Get(context.Background(), bookingDomain.BookingID(second.ID))
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StateAccepted, remaining.State())
}
