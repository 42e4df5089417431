package dto

// PublishBookRequest creates one listing. Amounts are paisa (100 = 1 taka).
type PublishBookRequest struct {
	ISBN        string `json:"isbn" binding:"omitempty,max=20" example:"9789849012345"`
	Title       string `json:"title" binding:"required,max=200" example:"Himu"`
	Author      string `json:"author" binding:"required,max=100" example:"Humayun Ahmed"`
	Category    string `json:"category" binding:"omitempty,max=50" example:"Fiction"`
	Description string `json:"description" binding:"max=5000"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/himu.jpg"`
	Price       int64  `json:"price" binding:"required,min=1" example:"25000"`
	MRP         int64  `json:"mrp" binding:"omitempty,min=1" example:"30000"`
	Stock       int    `json:"stock" binding:"min=0" example:"10"`
	Condition   string `json:"condition" binding:"omitempty,bookcondition" example:"new"`
}

type BulkPublishRequest struct {
	Books []PublishBookRequest `json:"books" binding:"required,min=1,dive"`
}

// UpdateBookRequest is a partial update of a listing.
type UpdateBookRequest struct {
	ISBN        *string `json:"isbn" binding:"omitempty,max=20"`
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Author      *string `json:"author" binding:"omitempty,min=1,max=100"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	CoverURL    *string `json:"cover_url" binding:"omitempty,max=500"`
	Price       *int64  `json:"price" binding:"omitempty,min=1"`
	MRP         *int64  `json:"mrp" binding:"omitempty,min=1"`
	Stock       *int    `json:"stock" binding:"omitempty,min=0"`
	Condition   *string `json:"condition" binding:"omitempty,bookcondition"`
	Featured    *bool   `json:"featured"`
	Bestseller  *bool   `json:"bestseller"`
}

type ListBooksQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword   string `form:"keyword" binding:"omitempty,max=100" example:"himu"`
	Category  string `form:"category" binding:"omitempty,max=50"`
	Condition string `form:"condition" binding:"omitempty,bookcondition"`
	MinPrice  int64  `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice  int64  `form:"max_price" binding:"omitempty,min=0"`
	SellerID  uint   `form:"seller_id"`
	InStock   bool   `form:"in_stock"`
	SortBy    string `form:"sort_by" binding:"omitempty,max=20" example:"newest"`
}

type PageQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,max=24"`
}
