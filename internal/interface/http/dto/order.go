package dto

type CreateOrderRequest struct {
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string                   `json:"payment_method" binding:"required,paymentmethod" example:"cod"`
	ShippingAddress ShippingAddressRequest   `json:"shipping_address" binding:"required"`
}

type CreateOrderItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999"`
}

type ShippingAddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=100" example:"Rahim Uddin"`
	Phone      string `json:"phone" binding:"required,max=20" example:"01711000000"`
	Address    string `json:"address" binding:"required,max=255" example:"House 12, Road 5, Dhanmondi"`
	City       string `json:"city" binding:"required,max=64" example:"Dhaka"`
	PostalCode string `json:"postal_code" binding:"omitempty,max=16" example:"1209"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"accepted"`
}

// SellerOrdersQuery is the admin view of one seller's orders.
type SellerOrdersQuery struct {
	SellerID uint   `form:"seller_id" binding:"required"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,max=16"`
}
