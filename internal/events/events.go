package events

import "time"

// Topics used by the rental platform.
const (
	TopicBookingEvents = "rental.booking.events"
	TopicCarEvents     = "rental.car.events"
)

// Booking event types published on TopicBookingEvents.
const (
	BookingRequested = "booking.requested"
	BookingAccepted  = "booking.accepted"
	BookingDeclined  = "booking.declined"
	BookingPickedUp  = "booking.picked_up"
	BookingReturned  = "booking.returned"
	BookingCancelled = "booking.cancelled"
)

// Car event types consumed from TopicCarEvents.
const (
	CarDeleted = "car.deleted"
)

// BookingEvent is the payload for all booking lifecycle events.
type BookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	CarID      int64     `json:"car_id"`
	RenterID   int64     `json:"renter_id"`
	State      string    `json:"state"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CarDeletedEvent is published by the car inventory when a car is removed
// from the platform.
type CarDeletedEvent struct {
	CarID      int64     `json:"car_id"`
	OwnerID    int64     `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
