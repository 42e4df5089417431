package dto

type SubmitBuybackRequest struct {
	Title        string `json:"title" binding:"required,max=200" example:"Parineeta"`
	Author       string `json:"author" binding:"required,max=100" example:"Sarat Chandra"`
	ISBN         string `json:"isbn" binding:"omitempty,max=20"`
	Category     string `json:"category" binding:"omitempty,max=50"`
	Condition    string `json:"condition" binding:"omitempty,bookcondition" example:"used"`
	Description  string `json:"description" binding:"max=2000"`
	OfferedPrice int64  `json:"offered_price" binding:"required,min=1" example:"8000"`
}

type ApproveBuybackRequest struct {
	SellingPrice int64  `json:"selling_price" binding:"required,min=1" example:"15000"`
	Stock        int    `json:"stock" binding:"required,min=1" example:"1"`
	AdminNotes   string `json:"admin_notes" binding:"max=2000"`
}

type BuybackNotesRequest struct {
	AdminNotes string `json:"admin_notes" binding:"max=2000"`
}

type AcquireBuybackRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1" example:"1"`
}
