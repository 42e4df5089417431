package dto

type CreateReturnRequest struct {
	OrderID     uint                `json:"order_id" binding:"required"`
	Items       []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason      string              `json:"reason" binding:"required,max=255" example:"Damaged cover"`
	Description string              `json:"description" binding:"max=2000"`
}

type ReturnItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type ReturnStatusRequest struct {
	Status     string `json:"status" binding:"required,oneof=approved-by-admin rejected-by-admin completed" example:"approved-by-admin"`
	AdminNotes string `json:"admin_notes" binding:"max=2000"`
}

// ProcessReturnRequest issues the refund; a zero amount refunds the items total.
type ProcessReturnRequest struct {
	RefundAmount int64  `json:"refund_amount" binding:"min=0" example:"25000"`
	SellerNotes  string `json:"seller_notes" binding:"max=2000"`
}
