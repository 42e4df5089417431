package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/boipara/bookstore/internal/application/book"
	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/response"
)

type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
	manageBookUseCase  *appbook.ManageBookUseCase
}

// NewBookHandler creates the book handler.
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	manageBookUseCase *appbook.ManageBookUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		listBooksUseCase:   listBooksUseCase,
		manageBookUseCase:  manageBookUseCase,
	}
}

// ListBooks
// @Summary      Browse the catalog
// @Tags         books
// @Produce      json
// @Param        page       query int    false "page, default 1"
// @Param        page_size  query int    false "page size, default 20, max 100"
// @Param        keyword    query string false "title, author or ISBN"
// @Param        category   query string false "category"
// @Param        condition  query string false "new | like-new | used"
// @Param        min_price  query int    false "paisa"
// @Param        max_price  query int    false "paisa"
// @Param        seller_id  query int    false "seller"
// @Param        in_stock   query bool   false "only books with stock"
// @Param        sort_by    query string false "price_asc | price_desc | newest | title"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:      q.Page,
		PageSize:  q.PageSize,
		Keyword:   q.Keyword,
		Category:  q.Category,
		Condition: q.Condition,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		SellerID:  q.SellerID,
		InStock:   q.InStock,
		SortBy:    q.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook
// @Summary      Book detail
// @Tags         books
// @Produce      json
// @Param        id path int true "book id"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.listBooksUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Featured
// @Summary      Featured books
// @Tags         books
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Router       /api/v1/books/featured/list [get]
func (h *BookHandler) Featured(c *gin.Context) {
	result, err := h.listBooksUseCase.Featured(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Bestsellers
// @Summary      Bestselling books
// @Tags         books
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Router       /api/v1/books/bestsellers/list [get]
func (h *BookHandler) Bestsellers(c *gin.Context) {
	result, err := h.listBooksUseCase.Bestsellers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListMine
// @Summary      Seller's own listings
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "page"
// @Param        page_size query int false "page size"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books/seller/mine [get]
func (h *BookHandler) ListMine(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.listBooksUseCase.ListMine(c.Request.Context(), middleware.MustGetUserID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PublishBook
// @Summary      Publish a listing
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "listing"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response
// @Failure      403 {object} response.Response "sellers only"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.publishBookUseCase.Execute(c.Request.Context(), toPublishRequest(req, middleware.MustGetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// PublishBulk publishes up to 100 listings; one invalid row rejects the batch.
// @Summary      Bulk publish
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BulkPublishRequest true "listings"
// @Success      201 {object} response.Response{data=[]appbook.BookDTO}
// @Failure      400 {object} response.Response
// @Router       /api/v1/books/bulk [post]
func (h *BookHandler) PublishBulk(c *gin.Context) {
	var req dto.BulkPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sellerID := middleware.MustGetUserID(c)
	reqs := make([]appbook.PublishBookRequest, len(req.Books))
	for i, b := range req.Books {
		reqs[i] = toPublishRequest(b, sellerID)
	}

	result, err := h.publishBookUseCase.ExecuteBulk(c.Request.Context(), sellerID, reqs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateBook
// @Summary      Update a listing
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "book id"
// @Param        request body dto.UpdateBookRequest true "fields to change"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      403 {object} response.Response "not the owner"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := book.Patch{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Category:    req.Category,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Price:       req.Price,
		MRP:         req.MRP,
		Stock:       req.Stock,
		Featured:    req.Featured,
		Bestseller:  req.Bestseller,
	}
	if req.Condition != nil {
		cond := book.Condition(*req.Condition)
		patch.Condition = &cond
	}

	result, err := h.manageBookUseCase.Update(c.Request.Context(), id, middleware.MustGetUserID(c), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook
// @Summary      Remove a listing
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "book id"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "not the owner"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.manageBookUseCase.Delete(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func toPublishRequest(req dto.PublishBookRequest, sellerID uint) appbook.PublishBookRequest {
	return appbook.PublishBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Price:       req.Price,
		MRP:         req.MRP,
		Stock:       req.Stock,
		Condition:   req.Condition,
		SellerID:    sellerID,
	}
}
