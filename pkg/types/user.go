package types

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive || s == UserStatusSuspended
}

type LoginType string

const (
	LoginTypeEmail  LoginType = "email"
	LoginTypeKakao  LoginType = "kakao"
	LoginTypeNaver  LoginType = "naver"
	LoginTypeGoogle LoginType = "google"
)

func (t LoginType) Valid() bool {
	switch t {
	case LoginTypeEmail, LoginTypeKakao, LoginTypeNaver, LoginTypeGoogle:
		return true
	}
	return false
}

type User struct {
	ID           int64      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     *string    `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         *string    `db:"name" json:"name"`
	Phone        *string    `db:"phone" json:"phone"`
	Role         UserRole   `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	LoginType    LoginType  `db:"login_type" json:"loginType"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

type UserProfile struct {
	UserID            int64      `db:"user_id" json:"userId"`
	Church            *string    `db:"church" json:"church"`
	Position          *string    `db:"position" json:"position"`
	Address           *string    `db:"address" json:"address"`
	AddressDetail     *string    `db:"address_detail" json:"addressDetail"`
	PostalCode        *string    `db:"postal_code" json:"postalCode"`
	PrivacyAgreedAt   *time.Time `db:"privacy_agreed_at" json:"privacyAgreedAt"`
	MarketingAgreedAt *time.Time `db:"marketing_agreed_at" json:"marketingAgreedAt"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

type UserFilter struct {
	Role      UserRole   `form:"role"`
	Status    UserStatus `form:"status"`
	LoginType LoginType  `form:"loginType"`
	Search    string     `form:"q"`
}
