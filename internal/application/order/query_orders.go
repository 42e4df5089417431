package order

import (
	"context"

	"github.com/boipara/bookstore/internal/domain/order"
	"github.com/boipara/bookstore/internal/domain/user"
	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// QueryOrdersUseCase serves the read side: detail with visibility rules and the
// role-specific listings.
type QueryOrdersUseCase struct {
	orderRepo order.Repository
}

// NewQueryOrdersUseCase creates the order query use case.
func NewQueryOrdersUseCase(orderRepo order.Repository) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{orderRepo: orderRepo}
}

// Get returns the order if the viewer is its buyer, a seller of one of its
// items, or an admin.
func (uc *QueryOrdersUseCase) Get(ctx context.Context, orderID, viewerID uint, role user.Role) (*OrderDTO, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case role == user.RoleAdmin:
	case o.IsOwnedBy(viewerID):
	case role == user.RoleSeller && o.InvolvesSeller(viewerID):
	default:
		return nil, apperrors.ErrForbidden
	}

	dto := ToOrderDTO(o)
	return &dto, nil
}

func (uc *QueryOrdersUseCase) ListMine(ctx context.Context, userID uint, page, pageSize int) (*PageResult, error) {
	filter := order.ListFilter{Page: page, PageSize: pageSize}
	filter.Normalize()
	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}
	return toPageResult(orders, total, filter.Page, filter.PageSize), nil
}

func (uc *QueryOrdersUseCase) ListForSeller(ctx context.Context, sellerID uint, filter order.ListFilter) (*PageResult, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, order.ErrInvalidStatus
	}
	filter.Normalize()
	orders, total, err := uc.orderRepo.ListBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	return toPageResult(orders, total, filter.Page, filter.PageSize), nil
}

func (uc *QueryOrdersUseCase) ListAll(ctx context.Context, filter order.ListFilter) (*PageResult, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, order.ErrInvalidStatus
	}
	filter.Normalize()
	orders, total, err := uc.orderRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toPageResult(orders, total, filter.Page, filter.PageSize), nil
}
