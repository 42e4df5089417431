package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/boipara/bookstore/internal/application/order"
	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/interface/http/dto"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/response"
)

type OrderHandler struct {
	createOrderUseCase  *apporder.CreateOrderUseCase
	cancelOrderUseCase  *apporder.CancelOrderUseCase
	updateStatusUseCase *apporder.UpdateStatusUseCase
	queryOrdersUseCase  *apporder.QueryOrdersUseCase
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	cancelOrderUseCase *apporder.CancelOrderUseCase,
	updateStatusUseCase *apporder.UpdateStatusUseCase,
	queryOrdersUseCase *apporder.QueryOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:  createOrderUseCase,
		cancelOrderUseCase:  cancelOrderUseCase,
		updateStatusUseCase: updateStatusUseCase,
		queryOrdersUseCase:  queryOrdersUseCase,
	}
}

// CreateOrder
// @Summary      Place an order
// @Description  Reserves stock with conditional decrements; any missing book or short stock rejects the whole order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "order"
// @Success      201 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response
// @Failure      404 {object} response.Response "book not found"
// @Failure      409 {object} response.Response "insufficient stock"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{BookID: item.BookID, Quantity: item.Quantity}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:        middleware.MustGetUserID(c),
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		ShippingAddress: apporder.ShippingAddressDTO{
			FullName:   req.ShippingAddress.FullName,
			Phone:      req.ShippingAddress.Phone,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// MyOrders
// @Summary      Customer's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "page"
// @Param        page_size query int false "page size"
// @Success      200 {object} response.Response{data=apporder.PageResult}
// @Router       /api/v1/orders/my-orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.queryOrdersUseCase.ListMine(c.Request.Context(), middleware.MustGetUserID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder
// @Summary      Order detail
// @Description  Visible to the buyer, sellers with items in the order, and admins
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "order id"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      403 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.queryOrdersUseCase.Get(c.Request.Context(), id, middleware.MustGetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder
// @Summary      Cancel an order
// @Description  Owner only; restores stock and notifies the sellers
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "order id"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      409 {object} response.Response "order can no longer be cancelled"
// @Router       /api/v1/orders/{id}/cancel [patch]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.cancelOrderUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus
// @Summary      Move an order along fulfilment
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                          true "order id"
// @Param        request body dto.UpdateOrderStatusRequest true "target status"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      409 {object} response.Response "transition not allowed"
// @Router       /api/v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateStatusUseCase.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		OrderID:   id,
		ActorID:   middleware.MustGetUserID(c),
		ActorRole: middleware.GetRole(c),
		Status:    req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SellerOrders
// @Summary      Orders containing the seller's items
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "status filter"
// @Param        page      query int    false "page"
// @Param        page_size query int    false "page size"
// @Success      200 {object} response.Response{data=apporder.PageResult}
// @Router       /api/v1/orders/seller/my-orders [get]
func (h *OrderHandler) SellerOrders(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.queryOrdersUseCase.ListForSeller(c.Request.Context(), middleware.MustGetUserID(c), listFilter(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AllOrders
// @Summary      Every order (admin)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "status filter"
// @Param        page      query int    false "page"
// @Param        page_size query int    false "page size"
// @Success      200 {object} response.Response{data=apporder.PageResult}
// @Router       /api/v1/orders/admin/all-orders [get]
func (h *OrderHandler) AllOrders(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.queryOrdersUseCase.ListAll(c.Request.Context(), listFilter(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// OrdersOfSeller
// @Summary      One seller's orders (admin)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        seller_id query int    true  "seller"
// @Param        status    query string false "status filter"
// @Param        page      query int    false "page"
// @Param        page_size query int    false "page size"
// @Success      200 {object} response.Response{data=apporder.PageResult}
// @Router       /api/v1/orders/admin/seller-orders [get]
func (h *OrderHandler) OrdersOfSeller(c *gin.Context) {
	var q dto.SellerOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.queryOrdersUseCase.ListForSeller(c.Request.Context(), q.SellerID, order.ListFilter{
		Status:   order.Status(q.Status),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func listFilter(q dto.PageQuery) order.ListFilter {
	return order.ListFilter{Status: order.Status(q.Status), Page: q.Page, PageSize: q.PageSize}
}
