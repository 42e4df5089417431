package handler

import (
	"github.com/gin-gonic/gin"

	appreturns "github.com/boipara/bookstore/internal/application/returns"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/response"
)

type ReturnHandler struct {
	returnUseCase *appreturns.ReturnUseCase
}

// NewReturnHandler creates the return handler.
func NewReturnHandler(returnUseCase *appreturns.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{returnUseCase: returnUseCase}
}

// CreateReturn
// @Summary      Request a return
// @Description  Delivered orders only; items must come from one seller
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateReturnRequest true "return"
// @Success      201 {object} response.Response{data=appreturns.ReturnDTO}
// @Failure      400 {object} response.Response
// @Failure      403 {object} response.Response "not your order"
// @Failure      409 {object} response.Response "order not delivered or return already open"
// @Router       /api/v1/returns [post]
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	var req dto.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lines := make([]appreturns.ReturnLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = appreturns.ReturnLine{BookID: item.BookID, Quantity: item.Quantity}
	}

	result, err := h.returnUseCase.Create(c.Request.Context(), appreturns.CreateReturnRequest{
		OrderID:     req.OrderID,
		UserID:      middleware.MustGetUserID(c),
		Items:       lines,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListReturns is scoped by the caller's role.
// @Summary      List returns
// @Tags         returns
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "status filter"
// @Param        page      query int    false "page"
// @Param        page_size query int    false "page size"
// @Success      200 {object} response.Response{data=appreturns.PageResult}
// @Router       /api/v1/returns [get]
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.returnUseCase.List(c.Request.Context(), appreturns.ListRequest{
		ViewerID: middleware.MustGetUserID(c),
		Role:     middleware.GetRole(c),
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus
// @Summary      Admin decision on a return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "return id"
// @Param        request body dto.ReturnStatusRequest true "decision"
// @Success      200 {object} response.Response{data=appreturns.ReturnDTO}
// @Failure      409 {object} response.Response "transition not allowed"
// @Router       /api/v1/returns/{id}/status [patch]
func (h *ReturnHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.returnUseCase.UpdateStatus(c.Request.Context(), appreturns.AdminStatusRequest{
		ReturnID: id,
		Status:   req.Status,
		Notes:    req.AdminNotes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ProcessReturn
// @Summary      Issue the refund
// @Description  The return's seller, after admin approval
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                      true "return id"
// @Param        request body dto.ProcessReturnRequest true "refund"
// @Success      200 {object} response.Response{data=appreturns.ReturnDTO}
// @Failure      403 {object} response.Response "another seller's return"
// @Failure      409 {object} response.Response "not approved"
// @Router       /api/v1/returns/{id}/process [patch]
func (h *ReturnHandler) ProcessReturn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.returnUseCase.Process(c.Request.Context(), appreturns.ProcessRequest{
		ReturnID:     id,
		SellerID:     middleware.MustGetUserID(c),
		RefundAmount: req.RefundAmount,
		Notes:        req.SellerNotes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
