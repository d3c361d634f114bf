package model

import "innkeep/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldPropertyID   = "property_id"
	FieldRoomNumber   = "room_number"
	FieldCategory     = "category"
	FieldRoomType     = "room_type"
	FieldMaxOccupancy = "max_occupancy"
	FieldVacancy      = "vacancy"
)

// Room is one physical unit at a property. MaxOccupancy is the hard capacity;
// Vacancy is the remaining capacity as last applied by the inventory side and
// satisfies 0 <= Vacancy <= MaxOccupancy.
type Room struct {
	ID           string `db:"id"`
	PropertyID   string `db:"property_id"`
	RoomNumber   string `db:"room_number"`
	Category     string `db:"category"`
	RoomType     string `db:"room_type"`
	MaxOccupancy int    `db:"max_occupancy"`
	Vacancy      int    `db:"vacancy"`
	model.Metadata
}
