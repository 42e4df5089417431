package dto

type SuggestQuery struct {
	Q      string `form:"q" binding:"max=100" example:"him"`
	UserID uint   `form:"userId"`
}

type RecordHistoryRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Query  string `json:"query" binding:"required,max=100" example:"himu"`
}
