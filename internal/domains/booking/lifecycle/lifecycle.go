package lifecycle

import (
	"fmt"
	"strings"

	"innkeep/internal/domains/booking/model"
	"innkeep/shared/failure"
)

// State is the lifecycle position of a booking, derived from its two stored
// flags. Created is initial, CheckedOut is terminal; there is no transition
// out of CheckedOut.
type State int

const (
	StateCreated State = iota + 1
	StateCheckedIn
	StateCheckedOut
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateCheckedIn:
		return "checked_in"
	case StateCheckedOut:
		return "checked_out"
	default:
		return "unknown"
	}
}

// StateOf derives the lifecycle state from the booking's flags. The
// combination (checked out, never checked in) is not a state; it is corrupt
// input and reported as a data-integrity failure.
func StateOf(booking model.Booking) (State, error) {
	switch {
	case !booking.IsCheckedIn && !booking.IsCheckedOut:
		return StateCreated, nil
	case booking.IsCheckedIn && !booking.IsCheckedOut:
		return StateCheckedIn, nil
	case booking.IsCheckedIn && booking.IsCheckedOut:
		return StateCheckedOut, nil
	default:
		return 0, failure.DataIntegrity(fmt.Sprintf("booking %s is flagged checked out without ever checking in", booking.ID)) // nolint:wrapcheck
	}
}

// EnsureCheckInAllowed rejects a check-in attempted from anywhere but Created.
func EnsureCheckInAllowed(booking model.Booking) error {
	state, err := StateOf(booking)
	if err != nil {
		return err
	}

	if state != StateCreated {
		return failure.InvalidTransition(fmt.Sprintf("cannot check in booking %s from state %s", booking.ID, state)) // nolint:wrapcheck
	}

	return nil
}

// EnsureCheckOutAllowed validates a check-out attempt. A retry against an
// already checked-out booking reports alreadyDone so the caller can answer
// with a no-op success instead of an error.
func EnsureCheckOutAllowed(booking model.Booking) (alreadyDone bool, err error) {
	state, err := StateOf(booking)
	if err != nil {
		return false, err
	}

	switch state {
	case StateCheckedOut:
		return true, nil
	case StateCheckedIn:
		return false, nil
	default:
		return false, failure.InvalidTransition(fmt.Sprintf("cannot check out booking %s from state %s", booking.ID, state)) // nolint:wrapcheck
	}
}

// Buckets partitions a property's bookings by lifecycle state. NeedsReview
// holds rows whose flags violate the lifecycle invariant; they are excluded
// from every bucket and left untouched for manual review.
type Buckets struct {
	Upcoming    []model.Booking
	Current     []model.Booking
	History     []model.Booking
	NeedsReview []model.Booking
}

// Classify places every booking in exactly one bucket. Pure; the input slice
// is not modified.
func Classify(bookings []model.Booking) Buckets {
	var buckets Buckets

	for _, booking := range bookings {
		state, err := StateOf(booking)
		if err != nil {
			buckets.NeedsReview = append(buckets.NeedsReview, booking)

			continue
		}

		switch state {
		case StateCreated:
			buckets.Upcoming = append(buckets.Upcoming, booking)
		case StateCheckedIn:
			buckets.Current = append(buckets.Current, booking)
		case StateCheckedOut:
			buckets.History = append(buckets.History, booking)
		}
	}

	return buckets
}

// FilterByGuestName returns a copy of the buckets keeping only bookings whose
// primary guest name contains the query, case-insensitively. An empty query
// returns the buckets unchanged. The receiver is never mutated.
func (b Buckets) FilterByGuestName(query string) Buckets {
	if query == "" {
		return b
	}

	return Buckets{
		Upcoming:    filterByName(b.Upcoming, query),
		Current:     filterByName(b.Current, query),
		History:     filterByName(b.History, query),
		NeedsReview: filterByName(b.NeedsReview, query),
	}
}

func filterByName(bookings []model.Booking, query string) []model.Booking {
	needle := strings.ToLower(query)

	var matched []model.Booking

	for _, booking := range bookings {
		if strings.Contains(strings.ToLower(booking.GuestName), needle) {
			matched = append(matched, booking)
		}
	}

	return matched
}
