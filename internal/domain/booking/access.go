package booking

import (
	"fmt"

	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// RoleOf returns the actor's relationship to the booking, given the owner
// of the booked car. The second return value is false when the actor is
// neither the renter nor the owner.
func RoleOf(b *Booking, actorID, carOwnerID user.UserID) (ActorRole, bool) {
	switch actorID {
	case b.RenterID():
		return RoleRenter, true
	case carOwnerID:
		return RoleOwner, true
	default:
		return "", false
	}
}

// AuthorizeView checks that the actor may view the booking. Only the
// booking's renter and the owner of the booked car have view access.
func AuthorizeView(b *Booking, actorID, carOwnerID user.UserID) error {
	if _, ok := RoleOf(b, actorID, carOwnerID); !ok {
		return domain.NewAccessDeniedError(
			fmt.Sprintf("%d", actorID),
			fmt.Sprintf("booking %d", b.ID()),
		)
	}
	return nil
}

// AuthorizeTransition checks that the actor's role matches the allowed
// actor for the requested transition. Transitions absent from the table
// are left for the state machine to reject, so an illegal transition by a
// related actor surfaces as an invalid-state error rather than a
// permission error.
func AuthorizeTransition(b *Booking, actorID, carOwnerID user.UserID, requested BookingState) error {
	role, ok := RoleOf(b, actorID, carOwnerID)
	if !ok {
		return domain.NewAccessDeniedError(
			fmt.Sprintf("%d", actorID),
			fmt.Sprintf("booking %d", b.ID()),
		)
	}

	allowed := b.State().AllowedRoles(requested)
	if allowed == nil {
		return nil
	}
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return domain.NewAccessDeniedError(
		fmt.Sprintf("%d", actorID),
		fmt.Sprintf("booking %d", b.ID()),
	)
}
