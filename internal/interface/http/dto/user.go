package dto

// RegisterRequest registers a customer or seller. Admins are provisioned from config.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email,max=100" example:"rahim@example.com"`
	Password     string `json:"password" binding:"required,min=8,max=64" example:"secret123"`
	Name         string `json:"name" binding:"required,min=2,max=50" example:"Rahim Uddin"`
	Phone        string `json:"phone" binding:"omitempty,max=20" example:"01711000000"`
	Role         string `json:"role" binding:"omitempty,oneof=customer seller" example:"customer"`
	StoreName    string `json:"store_name" binding:"omitempty,max=100" example:"Nilkhet Book Corner"`
	StoreAddress string `json:"store_address" binding:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"rahim@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UpdateProfileRequest is a partial update; omitted fields are unchanged.
// store_* fields are accepted only from sellers, department only from admins.
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=50"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	StoreName    *string `json:"store_name" binding:"omitempty,max=100"`
	StoreAddress *string `json:"store_address" binding:"omitempty,max=255"`
	Department   *string `json:"department" binding:"omitempty,max=100"`
}
