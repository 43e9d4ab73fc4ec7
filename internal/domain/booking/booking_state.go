package booking

import "fmt"

// BookingState represents the current state of a booking in its lifecycle.
type BookingState string

const (
	StatePending  BookingState = "PENDING"
	StateAccepted BookingState = "ACCEPTED"
	StateDeclined BookingState = "DECLINED"
	StatePickedUp BookingState = "PICKED_UP"
	StateReturned BookingState = "RETURNED"
)

// ActorRole is the relationship an actor has to a booking.
type ActorRole string

const (
	// RoleRenter is the user who requested the booking.
	RoleRenter ActorRole = "renter"
	// RoleOwner is the user who listed the booked car.
	RoleOwner ActorRole = "owner"
)

// validTransitions defines the state machine for booking lifecycle
// transitions. Transitions are forward-only; DECLINED and RETURNED are
// terminal.
var validTransitions = map[BookingState][]BookingState{
	StatePending:  {StateAccepted, StateDeclined},
	StateAccepted: {StatePickedUp},
	StatePickedUp: {StateReturned},
	StateDeclined: {},
	StateReturned: {},
}

// transitionActors defines which actor role may request each transition.
var transitionActors = map[BookingState]map[BookingState][]ActorRole{
	StatePending: {
		StateAccepted: {RoleOwner},
		StateDeclined: {RoleOwner},
	},
	StateAccepted: {
		StatePickedUp: {RoleRenter},
	},
	StatePickedUp: {
		StateReturned: {RoleRenter, RoleOwner},
	},
}

// IsValid returns true if the state is a recognized booking state.
func (s BookingState) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this state to the
// target is allowed.
func (s BookingState) CanTransitionTo(target BookingState) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this
// state.
func (s BookingState) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// IsLive returns true if the booking still occupies the car's calendar.
func (s BookingState) IsLive() bool {
	switch s {
	case StatePending, StateAccepted, StatePickedUp:
		return true
	default:
		return false
	}
}

// AllowedRoles returns the actor roles permitted to request the transition
// from s to target, or nil if the transition is not in the table.
func (s BookingState) AllowedRoles(target BookingState) []ActorRole {
	targets, exists := transitionActors[s]
	if !exists {
		return nil
	}
	return targets[target]
}

// String returns the string representation of the state.
func (s BookingState) String() string {
	return string(s)
}

// ParseBookingState converts a string to a BookingState, returning an error
// if the value is not recognized.
func ParseBookingState(s string) (BookingState, error) {
	state := BookingState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid booking state: %s", s)
	}
	return state, nil
}

// LiveStates returns the states in which a booking blocks the car's
// calendar.
func LiveStates() []BookingState {
	return []BookingState{StatePending, StateAccepted, StatePickedUp}
}
