package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"innkeep/internal/domains/booking/model"
	roomDto "innkeep/internal/domains/room/model/dto"
	"innkeep/shared"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	PropertyID     string `json:"property_id"      validate:"required,max=100"`
	BookingType    string `json:"booking_type"     validate:"required,max=50"`
	RoomCategory   string `json:"room_category"    validate:"required,max=50"`
	RoomType       string `json:"room_type"        validate:"required,max=50"`
	BookingStatus  string `json:"booking_status"   validate:"omitempty,oneof=confirmed not_confirmed"`
	PaymentStatus  string `json:"payment_status"   validate:"omitempty,max=50"`
	PaymentMethod  string `json:"payment_method"   validate:"omitempty,max=50"`
	PaymentAmount  string `json:"payment_amount"   validate:"omitempty"`
	GuestName      string `json:"guest_name"       validate:"required,max=100"`
	GuestEmail     string `json:"guest_email"      validate:"omitempty,email,max=100"`
	GuestPhone     string `json:"guest_phone"      validate:"omitempty,max=20"`
	NumberOfGuests int    `json:"number_of_guests" validate:"required,min=1"`
	FromDate       string `json:"from_date"        validate:"required"`
	ToDate         string `json:"to_date"          validate:"required"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	fromDate, err := time.Parse(dateLayout, c.FromDate)
	if err != nil {
		return model.Booking{}, failure.Validation("from_date must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	toDate, err := time.Parse(dateLayout, c.ToDate)
	if err != nil {
		return model.Booking{}, failure.Validation("to_date must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	if !toDate.After(fromDate) {
		return model.Booking{}, failure.Validation("to_date must be after from_date") // nolint:wrapcheck
	}

	amount := decimal.Zero

	if c.PaymentAmount != "" {
		amount, err = decimal.NewFromString(c.PaymentAmount)
		if err != nil {
			return model.Booking{}, failure.Validation("payment_amount must be a decimal number") // nolint:wrapcheck
		}
	}

	status := c.BookingStatus
	if status == "" {
		status = model.BookingStatusNotConfirmed
	}

	return model.Booking{
		ID:             uuid.NewString(),
		PropertyID:     c.PropertyID,
		BookingType:    c.BookingType,
		RoomCategory:   c.RoomCategory,
		RoomType:       c.RoomType,
		BookingStatus:  status,
		PaymentStatus:  c.PaymentStatus,
		PaymentMethod:  c.PaymentMethod,
		PaymentAmount:  amount,
		GuestName:      c.GuestName,
		GuestEmail:     c.GuestEmail,
		GuestPhone:     c.GuestPhone,
		NumberOfGuests: c.NumberOfGuests,
		FromDate:       fromDate,
		ToDate:         toDate,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// GuestPayload is one guest as submitted on the check-in form. Id-proof
// documents are uploaded separately and referenced here by label and URL.
type GuestPayload struct {
	Name         string             `json:"name"  validate:"required,max=100"`
	Email        string             `json:"email" validate:"required,email,max=100"`
	Phone        string             `json:"phone" validate:"required,max=20"`
	DOB          string             `json:"dob"   validate:"required"`
	IDProofFront *model.DocumentRef `json:"id_proof_front" validate:"omitempty"`
	IDProofBack  *model.DocumentRef `json:"id_proof_back"  validate:"omitempty"`
}

func (g *GuestPayload) ToModel() model.Guest {
	return model.Guest{
		Name:         g.Name,
		Email:        g.Email,
		Phone:        g.Phone,
		DOB:          g.DOB,
		IDProofFront: g.IDProofFront,
		IDProofBack:  g.IDProofBack,
	}
}

// AssignmentPayload places one guest in one of the selected rooms.
type AssignmentPayload struct {
	RoomNumber string       `json:"roomNumber" validate:"required,max=20"`
	Guest      GuestPayload `json:"guest"      validate:"required"`
}

// CheckInRequest is the full check-in form submitted in one shot: the stay
// window, the room selections and every guest assignment, primary first.
type CheckInRequest struct {
	NumberOfGuest    int                 `json:"numberOfGuest"    validate:"required,min=1"`
	From             time.Time           `json:"from"             validate:"required"`
	To               time.Time           `json:"to"               validate:"required"`
	RoomCategory     []string            `json:"roomCategory"     validate:"required,min=1"`
	RoomType         []string            `json:"roomType"         validate:"required,min=1"`
	Rooms            []string            `json:"rooms"            validate:"required,min=1"`
	PrimaryGuest     *AssignmentPayload  `json:"primaryGuest"     validate:"required"`
	AdditionalGuests []AssignmentPayload `json:"additionalGuests" validate:"omitempty,dive"`
}

type BookingResponse struct {
	ID             string                 `json:"id"`
	PropertyID     string                 `json:"property_id"`
	BookingType    string                 `json:"booking_type"`
	RoomCategory   string                 `json:"room_category"`
	RoomType       string                 `json:"room_type"`
	BookingStatus  string                 `json:"booking_status"`
	PaymentStatus  string                 `json:"payment_status"`
	PaymentMethod  string                 `json:"payment_method"`
	PaymentAmount  string                 `json:"payment_amount"`
	GuestName      string                 `json:"guest_name"`
	GuestEmail     string                 `json:"guest_email"`
	GuestPhone     string                 `json:"guest_phone"`
	NumberOfGuests int                    `json:"number_of_guests"`
	FromDate       time.Time              `json:"from_date"`
	ToDate         time.Time              `json:"to_date"`
	IsCheckedIn    bool                   `json:"is_checked_in"`
	IsCheckedOut   bool                   `json:"is_checked_out"`
	CheckedIn      *model.CheckedInRecord `json:"checked_in,omitempty"`
}

func (b *BookingResponse) FromModel(mod model.Booking) {
	b.ID = mod.ID
	b.PropertyID = mod.PropertyID
	b.BookingType = mod.BookingType
	b.RoomCategory = mod.RoomCategory
	b.RoomType = mod.RoomType
	b.BookingStatus = mod.BookingStatus
	b.PaymentStatus = mod.PaymentStatus
	b.PaymentMethod = mod.PaymentMethod
	b.PaymentAmount = mod.PaymentAmount.String()
	b.GuestName = mod.GuestName
	b.GuestEmail = mod.GuestEmail
	b.GuestPhone = mod.GuestPhone
	b.NumberOfGuests = mod.NumberOfGuests
	b.FromDate = mod.FromDate
	b.ToDate = mod.ToDate
	b.IsCheckedIn = mod.IsCheckedIn
	b.IsCheckedOut = mod.IsCheckedOut
	b.CheckedIn = mod.CheckedIn
}

func fromModels(models []model.Booking) []BookingResponse {
	bookings := make([]BookingResponse, len(models))
	for i, mod := range models {
		bookings[i].FromModel(mod)
	}

	return bookings
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Bookings = fromModels(models)
}

// BookingDetailResponse pairs a booking with the rooms an operator can pick
// from on the check-in form: same property, matching category and type.
type BookingDetailResponse struct {
	Booking        BookingResponse        `json:"booking"`
	CandidateRooms []roomDto.RoomResponse `json:"candidate_rooms"`
}

// OverviewResponse splits a property's bookings into the console's three
// tabs. NeedsReview lists records whose stored flags contradict each other.
type OverviewResponse struct {
	Upcoming    []BookingResponse `json:"upcoming"`
	Current     []BookingResponse `json:"current"`
	History     []BookingResponse `json:"history"`
	NeedsReview []BookingResponse `json:"needs_review"`
}
