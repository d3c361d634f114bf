package checkin

import (
	"fmt"
	"time"

	"innkeep/internal/domains/booking/model"
	"innkeep/shared/failure"
)

// Payload is the assembled, validated check-in commit. It is handed to the
// persistence side as a single unit so the assignment is applied
// all-or-nothing; partial application would leave a booking without exactly
// one primary guest.
type Payload struct {
	NumberOfGuest int                   `json:"numberOfGuest"`
	From          time.Time             `json:"from"`
	To            time.Time             `json:"to"`
	CheckedIn     model.CheckedInRecord `json:"checkedIn"`
	RoomType      string                `json:"roomType"`
	RoomCategory  string                `json:"roomCategory"`
}

// Input carries the operator's check-in form state: the stay dates, declared
// headcount and the room/category/type selections.
type Input struct {
	From           time.Time
	To             time.Time
	NumberOfGuests int
	RoomCategory   Selection[string]
	RoomType       Selection[string]
	Rooms          Selection[string]
}

// Assemble validates the check-in preconditions in order, first failure wins,
// and packages the ledger into an immutable commit payload. It performs no
// I/O; a failed assembly leaves the ledger untouched so the operator can
// correct and retry.
func Assemble(input Input, ledger *Ledger) (Payload, error) {
	if input.From.IsZero() || input.To.IsZero() {
		return Payload{}, failure.Validation("check-in and check-out dates are required") // nolint:wrapcheck
	}

	if !input.To.After(input.From) {
		return Payload{}, failure.Validation("check-out date must be after the check-in date") // nolint:wrapcheck
	}

	if input.NumberOfGuests <= 0 {
		return Payload{}, failure.Validation("number of guests must be at least 1") // nolint:wrapcheck
	}

	category, ok := input.RoomCategory.ExactlyOne()
	if !ok {
		return Payload{}, failure.Validation("select exactly one room category") // nolint:wrapcheck
	}

	roomType, ok := input.RoomType.ExactlyOne()
	if !ok {
		return Payload{}, failure.Validation("select exactly one room type") // nolint:wrapcheck
	}

	if input.Rooms.IsEmpty() {
		return Payload{}, failure.Validation("select at least one room") // nolint:wrapcheck
	}

	for _, room := range ledger.Rooms() {
		if !input.Rooms.Contains(room) {
			return Payload{}, failure.Validation(fmt.Sprintf("guests are assigned to room %s, which is not selected", room)) // nolint:wrapcheck
		}
	}

	if !ledger.IsComplete(input.NumberOfGuests) {
		return Payload{}, failure.Validation(fmt.Sprintf("guest assignment is incomplete: %d of %d declared guests recorded", ledger.GuestCount(), input.NumberOfGuests)) // nolint:wrapcheck
	}

	for _, room := range input.Rooms.Values() {
		if len(ledger.GuestsByRoom(room)) == 0 {
			return Payload{}, failure.Validation(fmt.Sprintf("room %s is selected but has no guests assigned", room)) // nolint:wrapcheck
		}
	}

	return Payload{
		NumberOfGuest: input.NumberOfGuests,
		From:          input.From,
		To:            input.To,
		CheckedIn:     ledger.Snapshot(),
		RoomType:      roomType,
		RoomCategory:  category,
	}, nil
}
