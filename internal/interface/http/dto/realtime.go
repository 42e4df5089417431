package dto

type JoinRoomRequest struct {
	ConnectionID string `json:"connectionId" binding:"required,uuid"`
	Room         string `json:"room" binding:"required,oneof=customer seller" example:"customer"`
}

type JoinRoomResponse struct {
	Room string `json:"room" example:"customer-12"`
}
