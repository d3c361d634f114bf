package checkin

import (
	"fmt"

	"github.com/google/uuid"

	"innkeep/internal/domains/booking/model"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/failure"
)

// Ledger is the in-progress, uncommitted working set of guest-to-room
// assignments for one booking. Guests live in an arena keyed by stable ids;
// room membership and the primary designation are lookup state. Additions are
// append-only and order-preserving, with the primary guest logically first.
//
// A ledger belongs to a single operator session and is not safe for
// concurrent use.
type Ledger struct {
	capacities map[string]int
	guests     map[string]model.Guest
	roomOf     map[string]string
	order      []string
	primaryID  string
}

// NewLedger builds a ledger over a snapshot of the property's rooms. Only
// rooms present in the snapshot can receive guests.
func NewLedger(rooms []roomModel.Room) *Ledger {
	capacities := make(map[string]int, len(rooms))
	for _, room := range rooms {
		capacities[room.RoomNumber] = room.MaxOccupancy
	}

	return &Ledger{
		capacities: capacities,
		guests:     make(map[string]model.Guest),
		roomOf:     make(map[string]string),
	}
}

// SeedPrimary inserts or replaces the unique primary guest in the given room.
// A replacement keeps the primary logically first and releases the previous
// primary's room slot.
func (l *Ledger) SeedPrimary(roomNumber string, guest model.Guest) error {
	if err := validateGuest(guest); err != nil {
		return err
	}

	if err := l.ensureRoom(roomNumber); err != nil {
		return err
	}

	if l.roomGuestCount(roomNumber, l.primaryID) >= l.capacities[roomNumber] {
		return failure.CapacityExceeded(fmt.Sprintf("room %s is already at its maximum occupancy of %d", roomNumber, l.capacities[roomNumber])) // nolint:wrapcheck
	}

	guest.IsPrimary = true
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}

	if l.primaryID != "" {
		delete(l.guests, l.primaryID)
		delete(l.roomOf, l.primaryID)
		l.order[0] = guest.ID
	} else {
		l.order = append([]string{guest.ID}, l.order...)
	}

	l.primaryID = guest.ID
	l.guests[guest.ID] = guest
	l.roomOf[guest.ID] = roomNumber

	return nil
}

// AddGuest appends an additional guest to the given room. The booking must
// already be anchored by a primary guest, and the room must have occupancy
// left within this ledger.
func (l *Ledger) AddGuest(roomNumber string, guest model.Guest) error {
	if l.primaryID == "" {
		return failure.PrimaryGuestMissing("seed the primary guest before adding additional guests") // nolint:wrapcheck
	}

	if err := validateGuest(guest); err != nil {
		return err
	}

	if err := l.ensureRoom(roomNumber); err != nil {
		return err
	}

	if l.roomGuestCount(roomNumber, "") >= l.capacities[roomNumber] {
		return failure.CapacityExceeded(fmt.Sprintf("room %s is already at its maximum occupancy of %d", roomNumber, l.capacities[roomNumber])) // nolint:wrapcheck
	}

	guest.IsPrimary = false
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}

	if _, exists := l.guests[guest.ID]; exists {
		return failure.Validation(fmt.Sprintf("guest %s is already on this booking", guest.ID)) // nolint:wrapcheck
	}

	l.order = append(l.order, guest.ID)
	l.guests[guest.ID] = guest
	l.roomOf[guest.ID] = roomNumber

	return nil
}

// RemoveGuest drops an additional guest from the ledger. The primary guest
// cannot be removed, only replaced via SeedPrimary.
func (l *Ledger) RemoveGuest(id string) error {
	if _, exists := l.guests[id]; !exists {
		return failure.NotFound("guest not found on this booking") // nolint:wrapcheck
	}

	if id == l.primaryID {
		return failure.Validation("the primary guest cannot be removed, only replaced") // nolint:wrapcheck
	}

	delete(l.guests, id)
	delete(l.roomOf, id)

	for i, orderedID := range l.order {
		if orderedID == id {
			l.order = append(l.order[:i], l.order[i+1:]...)

			break
		}
	}

	return nil
}

// GuestsByRoom returns the guests assigned to a room, in insertion order.
func (l *Ledger) GuestsByRoom(roomNumber string) []model.Guest {
	var guests []model.Guest

	for _, id := range l.order {
		if l.roomOf[id] == roomNumber {
			guests = append(guests, l.guests[id])
		}
	}

	return guests
}

// Rooms returns the distinct rooms holding at least one guest, in
// first-assignment order.
func (l *Ledger) Rooms() []string {
	seen := make(map[string]struct{})

	var rooms []string

	for _, id := range l.order {
		room := l.roomOf[id]
		if _, ok := seen[room]; ok {
			continue
		}

		seen[room] = struct{}{}
		rooms = append(rooms, room)
	}

	return rooms
}

func (l *Ledger) GuestCount() int {
	return len(l.order)
}

// Primary returns the primary guest, if one has been seeded.
func (l *Ledger) Primary() (model.Guest, bool) {
	if l.primaryID == "" {
		return model.Guest{}, false
	}

	return l.guests[l.primaryID], true
}

// IsComplete reports whether the ledger satisfies the check-in occupancy
// requirements for the declared headcount: a primary guest exists, at least
// as many guest records as declared, and every assigned room holds at least
// one guest. Adding guests to a complete ledger can never make it incomplete.
func (l *Ledger) IsComplete(declaredGuestCount int) bool {
	if l.primaryID == "" {
		return false
	}

	if len(l.order) < declaredGuestCount {
		return false
	}

	for _, room := range l.Rooms() {
		if len(l.GuestsByRoom(room)) == 0 {
			return false
		}
	}

	return true
}

// Snapshot freezes the ledger into the committed assignment shape, primary
// guest first, additional guests in insertion order.
func (l *Ledger) Snapshot() model.CheckedInRecord {
	var record model.CheckedInRecord

	for _, id := range l.order {
		assignment := model.RoomAssignment{
			RoomNumber: l.roomOf[id],
			Guest:      l.guests[id],
		}

		if id == l.primaryID {
			record.PrimaryGuest = assignment
		} else {
			record.AdditionalGuests = append(record.AdditionalGuests, assignment)
		}
	}

	return record
}

func (l *Ledger) ensureRoom(roomNumber string) error {
	if roomNumber == "" {
		return failure.Validation("missing field: room number") // nolint:wrapcheck
	}

	if _, ok := l.capacities[roomNumber]; !ok {
		return failure.Validation(fmt.Sprintf("room %s does not belong to this property", roomNumber)) // nolint:wrapcheck
	}

	return nil
}

// roomGuestCount counts the ledger's guests in a room, ignoring the guest
// with the given id (used when the primary is being replaced).
func (l *Ledger) roomGuestCount(roomNumber, ignoreID string) int {
	count := 0

	for id, room := range l.roomOf {
		if room == roomNumber && id != ignoreID {
			count++
		}
	}

	return count
}

func validateGuest(guest model.Guest) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", guest.Name},
		{"email", guest.Email},
		{"phone", guest.Phone},
		{"dob", guest.DOB},
	} {
		if field.value == "" {
			return failure.Validation("missing field: " + field.name) // nolint:wrapcheck
		}
	}

	return nil
}
