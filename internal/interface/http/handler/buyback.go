package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appbuyback "github.com/boipara/bookstore/internal/application/buyback"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/response"
)

type BuybackHandler struct {
	buybackUseCase *appbuyback.BuybackUseCase
}

// NewBuybackHandler creates the buyback handler.
func NewBuybackHandler(buybackUseCase *appbuyback.BuybackUseCase) *BuybackHandler {
	return &BuybackHandler{buybackUseCase: buybackUseCase}
}

// Submit
// @Summary      Offer a book for buyback
// @Tags         buyback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SubmitBuybackRequest true "offer"
// @Success      201 {object} response.Response{data=appbuyback.RequestDTO}
// @Router       /api/v1/buyback [post]
func (h *BuybackHandler) Submit(c *gin.Context) {
	var req dto.SubmitBuybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.buybackUseCase.Submit(c.Request.Context(), appbuyback.SubmitRequest{
		UserID:       middleware.MustGetUserID(c),
		Title:        req.Title,
		Author:       req.Author,
		ISBN:         req.ISBN,
		Category:     req.Category,
		Condition:    req.Condition,
		Description:  req.Description,
		OfferedPrice: req.OfferedPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Mine
// @Summary      Customer's buyback requests
// @Tags         buyback
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "page"
// @Param        page_size query int false "page size"
// @Success      200 {object} response.Response{data=appbuyback.PageResult}
// @Router       /api/v1/buyback/my [get]
func (h *BuybackHandler) Mine(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.buybackUseCase.ListMine(c.Request.Context(), middleware.MustGetUserID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// All
// @Summary      Every buyback request (admin)
// @Tags         buyback
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "pending | approved | rejected | completed | sold"
// @Param        page      query int    false "page"
// @Param        page_size query int    false "page size"
// @Success      200 {object} response.Response{data=appbuyback.PageResult}
// @Router       /api/v1/buyback [get]
func (h *BuybackHandler) All(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.buybackUseCase.ListAll(c.Request.Context(), q.Status, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Available
// @Summary      Approved buyback stock sellers can acquire
// @Tags         buyback
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "page"
// @Param        page_size query int false "page size"
// @Success      200 {object} response.Response{data=appbuyback.PageResult}
// @Router       /api/v1/buyback/available [get]
func (h *BuybackHandler) Available(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.buybackUseCase.ListAvailable(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Approve
// @Summary      Approve a buyback request
// @Tags         buyback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "request id"
// @Param        request body dto.ApproveBuybackRequest true "resale terms"
// @Success      200 {object} response.Response{data=appbuyback.RequestDTO}
// @Failure      409 {object} response.Response "not pending"
// @Router       /api/v1/buyback/{id}/approve [patch]
func (h *BuybackHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ApproveBuybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.buybackUseCase.Approve(c.Request.Context(), appbuyback.ApproveRequest{
		RequestID:    id,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
		Notes:        req.AdminNotes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Reject
// @Summary      Reject a buyback request
// @Tags         buyback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true  "request id"
// @Param        request body dto.BuybackNotesRequest false "notes"
// @Success      200 {object} response.Response{data=appbuyback.RequestDTO}
// @Router       /api/v1/buyback/{id}/reject [patch]
func (h *BuybackHandler) Reject(c *gin.Context) {
	h.decide(c, h.buybackUseCase.Reject)
}

// Complete
// @Summary      Mark the customer as paid
// @Tags         buyback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true  "request id"
// @Param        request body dto.BuybackNotesRequest false "notes"
// @Success      200 {object} response.Response{data=appbuyback.RequestDTO}
// @Router       /api/v1/buyback/{id}/complete [patch]
func (h *BuybackHandler) Complete(c *gin.Context) {
	h.decide(c, h.buybackUseCase.Complete)
}

type notesDecision func(ctx context.Context, id uint, notes string) (*appbuyback.RequestDTO, error)

func (h *BuybackHandler) decide(c *gin.Context, decision notesDecision) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.BuybackNotesRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	result, err := decision(c.Request.Context(), id, req.AdminNotes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Acquire
// @Summary      Acquire buyback units as a used listing
// @Tags         buyback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "request id"
// @Param        request body dto.AcquireBuybackRequest true "units"
// @Success      201 {object} response.Response{data=appbuyback.AcquireResult}
// @Failure      409 {object} response.Response "not available or not enough copies"
// @Router       /api/v1/buyback/{id}/acquire [post]
func (h *BuybackHandler) Acquire(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.AcquireBuybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.buybackUseCase.Acquire(c.Request.Context(), appbuyback.AcquireRequest{
		RequestID: id,
		SellerID:  middleware.MustGetUserID(c),
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
