package dto

import (
	"strings"
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

type CreateUserRequest struct {
	Email     string          `json:"email"`
	Username  *string         `json:"username"`
	Password  string          `json:"password"`
	Name      *string         `json:"name"`
	Phone     *string         `json:"phone"`
	Role      types.UserRole  `json:"role"`
	LoginType types.LoginType `json:"loginType"`

	Profile *ProfileRequest `json:"profile"`
}

// ToModel applies role USER, status active and login type email; the
// password hash is filled in by the caller.
func (r CreateUserRequest) ToModel() *types.User {
	u := &types.User{
		Email:     strings.ToLower(trim(r.Email)),
		Username:  utils.TrimmedPtr(r.Username),
		Name:      utils.TrimmedPtr(r.Name),
		Phone:     utils.TrimmedPtr(r.Phone),
		Role:      r.Role,
		Status:    types.UserStatusActive,
		LoginType: r.LoginType,
	}
	if u.Role == "" {
		u.Role = types.UserRoleUser
	}
	if u.LoginType == "" {
		u.LoginType = types.LoginTypeEmail
	}
	return u
}

type UpdateUserRequest struct {
	Email    *string         `json:"email"`
	Username *string         `json:"username"`
	Name     *string         `json:"name"`
	Phone    *string         `json:"phone"`
	Role     *types.UserRole `json:"role"`
}

func (r UpdateUserRequest) Apply(u *types.User) {
	if r.Email != nil {
		u.Email = strings.ToLower(trim(*r.Email))
	}
	if r.Username != nil {
		u.Username = utils.TrimmedPtr(r.Username)
	}
	if r.Name != nil {
		u.Name = utils.TrimmedPtr(r.Name)
	}
	if r.Phone != nil {
		u.Phone = utils.TrimmedPtr(r.Phone)
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
}

type ProfileRequest struct {
	Church          *string `json:"church"`
	Position        *string `json:"position"`
	Address         *string `json:"address"`
	AddressDetail   *string `json:"addressDetail"`
	PostalCode      *string `json:"postalCode"`
	PrivacyAgreed   *bool   `json:"privacyAgreed"`
	MarketingAgreed *bool   `json:"marketingAgreed"`
}

// Apply records agreement timestamps at now; withdrawing clears them.
func (r ProfileRequest) Apply(p *types.UserProfile, now time.Time) {
	if r.Church != nil {
		p.Church = utils.TrimmedPtr(r.Church)
	}
	if r.Position != nil {
		p.Position = utils.TrimmedPtr(r.Position)
	}
	if r.Address != nil {
		p.Address = utils.TrimmedPtr(r.Address)
	}
	if r.AddressDetail != nil {
		p.AddressDetail = utils.TrimmedPtr(r.AddressDetail)
	}
	if r.PostalCode != nil {
		p.PostalCode = utils.TrimmedPtr(r.PostalCode)
	}
	if r.PrivacyAgreed != nil {
		p.PrivacyAgreedAt = agreedAt(*r.PrivacyAgreed, p.PrivacyAgreedAt, now)
	}
	if r.MarketingAgreed != nil {
		p.MarketingAgreedAt = agreedAt(*r.MarketingAgreed, p.MarketingAgreedAt, now)
	}
}

func agreedAt(agreed bool, current *time.Time, now time.Time) *time.Time {
	if !agreed {
		return nil
	}
	if current != nil {
		return current
	}
	return &now
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ChangeStatusRequest struct {
	Status types.UserStatus `json:"status"`
}

type UserResponse struct {
	ID          int64            `json:"id"`
	Email       string           `json:"email"`
	Username    *string          `json:"username"`
	Name        *string          `json:"name"`
	Phone       *string          `json:"phone"`
	Role        types.UserRole   `json:"role"`
	Status      types.UserStatus `json:"status"`
	LoginType   types.LoginType  `json:"loginType"`
	LastLoginAt *time.Time       `json:"lastLoginAt"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`

	Profile *ProfileResponse `json:"profile,omitempty"`
}

func NewUserResponse(u *types.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		LoginType:   u.LoginType,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type ProfileResponse struct {
	Church            *string    `json:"church"`
	Position          *string    `json:"position"`
	Address           *string    `json:"address"`
	AddressDetail     *string    `json:"addressDetail"`
	PostalCode        *string    `json:"postalCode"`
	PrivacyAgreedAt   *time.Time `json:"privacyAgreedAt"`
	MarketingAgreedAt *time.Time `json:"marketingAgreedAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func NewProfileResponse(p *types.UserProfile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		Church:            p.Church,
		Position:          p.Position,
		Address:           p.Address,
		AddressDetail:     p.AddressDetail,
		PostalCode:        p.PostalCode,
		PrivacyAgreedAt:   p.PrivacyAgreedAt,
		MarketingAgreedAt: p.MarketingAgreedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// UserSummary is the author block attached to posts.
type UserSummary struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name"`
	Username *string `json:"username"`
}

func NewUserSummary(u *types.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}
