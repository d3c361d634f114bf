package dto

import (
	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	PropertyID   string `json:"property_id"   validate:"required,max=100"`
	RoomNumber   string `json:"room_number"   validate:"required,max=20"`
	Category     string `json:"category"      validate:"required,max=50"`
	RoomType     string `json:"room_type"     validate:"required,max=50"`
	MaxOccupancy int    `json:"max_occupancy" validate:"required,min=1"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:           uuid.NewString(),
		PropertyID:   c.PropertyID,
		RoomNumber:   c.RoomNumber,
		Category:     c.Category,
		RoomType:     c.RoomType,
		MaxOccupancy: c.MaxOccupancy,
		// a new room starts fully vacant
		Vacancy: c.MaxOccupancy,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Category     string `db:"category"      json:"category"      validate:"omitempty,max=50"`
	RoomType     string `db:"room_type"     json:"room_type"     validate:"omitempty,max=50"`
	MaxOccupancy *int   `db:"max_occupancy" json:"max_occupancy" validate:"omitempty,min=1"`
}

type RoomResponse struct {
	ID           string `json:"id"`
	PropertyID   string `json:"property_id"`
	RoomNumber   string `json:"room_number"`
	Category     string `json:"category"`
	RoomType     string `json:"room_type"`
	MaxOccupancy int    `json:"max_occupancy"`
	Vacancy      int    `json:"vacancy"`
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.PropertyID = model.PropertyID
	r.RoomNumber = model.RoomNumber
	r.Category = model.Category
	r.RoomType = model.RoomType
	r.MaxOccupancy = model.MaxOccupancy
	r.Vacancy = model.Vacancy
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
