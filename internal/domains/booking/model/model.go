package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldPropertyID     = "property_id"
	FieldBookingType    = "booking_type"
	FieldRoomCategory   = "room_category"
	FieldRoomType       = "room_type"
	FieldBookingStatus  = "booking_status"
	FieldPaymentStatus  = "payment_status"
	FieldPaymentMethod  = "payment_method"
	FieldPaymentAmount  = "payment_amount"
	FieldGuestName      = "guest_name"
	FieldGuestEmail     = "guest_email"
	FieldGuestPhone     = "guest_phone"
	FieldNumberOfGuests = "number_of_guests"
	FieldFromDate       = "from_date"
	FieldToDate         = "to_date"
	FieldIsCheckedIn    = "is_checked_in"
	FieldIsCheckedOut   = "is_checked_out"
	FieldCheckedIn      = "checked_in"
)

const (
	BookingStatusConfirmed    = "confirmed"
	BookingStatusNotConfirmed = "not_confirmed"
)

// Booking is one reservation. The two lifecycle flags encode the booking's
// state; (is_checked_out && !is_checked_in) is a corrupt combination that the
// lifecycle package rejects.
type Booking struct {
	ID             string           `db:"id"`
	PropertyID     string           `db:"property_id"`
	BookingType    string           `db:"booking_type"`
	RoomCategory   string           `db:"room_category"`
	RoomType       string           `db:"room_type"`
	BookingStatus  string           `db:"booking_status"`
	PaymentStatus  string           `db:"payment_status"`
	PaymentMethod  string           `db:"payment_method"`
	PaymentAmount  decimal.Decimal  `db:"payment_amount"`
	GuestName      string           `db:"guest_name"`
	GuestEmail     string           `db:"guest_email"`
	GuestPhone     string           `db:"guest_phone"`
	NumberOfGuests int              `db:"number_of_guests"`
	FromDate       time.Time        `db:"from_date"`
	ToDate         time.Time        `db:"to_date"`
	IsCheckedIn    bool             `db:"is_checked_in"`
	IsCheckedOut   bool             `db:"is_checked_out"`
	CheckedIn      *CheckedInRecord `db:"checked_in"`
	model.Metadata
}

// DocumentRef points at an id-proof image held by the document store.
type DocumentRef struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Guest is one named occupant. Exactly one guest per booking is primary.
type Guest struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	DOB          string       `json:"dob"`
	IsPrimary    bool         `json:"is_primary"`
	IDProofFront *DocumentRef `json:"id_proof_front,omitempty"`
	IDProofBack  *DocumentRef `json:"id_proof_back,omitempty"`
}

// RoomAssignment pairs a guest with the room they occupy.
type RoomAssignment struct {
	RoomNumber string `json:"room_number"`
	Guest      Guest  `json:"guest"`
}

// CheckedInRecord is the committed guest/room assignment, stored as one JSONB
// value so the persistence side applies it all-or-nothing.
type CheckedInRecord struct {
	PrimaryGuest     RoomAssignment   `json:"primary_guest"`
	AdditionalGuests []RoomAssignment `json:"additional_guests"`
}

func (r *CheckedInRecord) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}

	value, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checked-in record: %w", err)
	}

	return value, nil
}

func (r *CheckedInRecord) Scan(src any) error {
	if src == nil {
		return nil
	}

	switch value := src.(type) {
	case []byte:
		return json.Unmarshal(value, r) //nolint:wrapcheck
	case string:
		return json.Unmarshal([]byte(value), r) //nolint:wrapcheck
	default:
		return errors.New("unsupported source type for checked-in record")
	}
}

// Assignments returns the committed assignments with the primary guest first.
func (r *CheckedInRecord) Assignments() []RoomAssignment {
	if r == nil {
		return nil
	}

	return append([]RoomAssignment{r.PrimaryGuest}, r.AdditionalGuests...)
}
