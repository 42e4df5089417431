package user

import (
	"context"

	"github.com/boipara/bookstore/internal/domain/user"
)

// ProfileUseCase reads and edits the caller's own profile.
type ProfileUseCase struct {
	userRepo    user.Repository
	userService user.Service
}

// NewProfileUseCase creates the profile use case.
func NewProfileUseCase(userRepo user.Repository, userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo, userService: userService}
}

func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(u)
	return &info, nil
}

// UpdateProfileRequest is the flat body the API accepts. Nil fields stay unchanged;
// store fields are for sellers, department for admins.
type UpdateProfileRequest struct {
	Name         *string
	Phone        *string
	StoreName    *string
	StoreAddress *string
	Department   *string
}

func (uc *ProfileUseCase) Update(ctx context.Context, userID uint, role user.Role, req UpdateProfileRequest) (*UserInfo, error) {
	update, err := req.variant(role)
	if err != nil {
		return nil, err
	}
	u, err := uc.userService.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(u)
	return &info, nil
}

// variant turns the flat request into the update for role, refusing fields that
// belong to another role.
func (r UpdateProfileRequest) variant(role user.Role) (user.ProfileUpdate, error) {
	common := user.CommonProfile{Name: r.Name, Phone: r.Phone}
	if r.Name == nil && r.Phone == nil && r.StoreName == nil && r.StoreAddress == nil && r.Department == nil {
		return nil, user.ErrEmptyProfileUpdate
	}
	hasSeller := r.StoreName != nil || r.StoreAddress != nil
	hasAdmin := r.Department != nil

	switch role {
	case user.RoleSeller:
		if hasAdmin {
			return nil, user.ErrProfileRoleMismatch
		}
		return user.SellerProfileUpdate{CommonProfile: common, StoreName: r.StoreName, StoreAddress: r.StoreAddress}, nil
	case user.RoleAdmin:
		if hasSeller {
			return nil, user.ErrProfileRoleMismatch
		}
		return user.AdminProfileUpdate{CommonProfile: common, Department: r.Department}, nil
	case user.RoleCustomer:
		if hasSeller || hasAdmin {
			return nil, user.ErrProfileRoleMismatch
		}
		return user.CustomerProfileUpdate{CommonProfile: common}, nil
	}
	return nil, user.ErrInvalidRole
}
