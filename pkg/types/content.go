package types

import "time"

type SubscriberStatus string

const (
	SubscriberStatusSubscribed   SubscriberStatus = "subscribed"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

type NewsletterSubscriber struct {
	ID               int64            `db:"id" json:"id"`
	Email            string           `db:"email" json:"email"`
	Name             *string          `db:"name" json:"name"`
	Status           SubscriberStatus `db:"status" json:"status"`
	UnsubscribeToken string           `db:"unsubscribe_token" json:"-"`
	SubscribedAt     time.Time        `db:"subscribed_at" json:"subscribedAt"`
	UnsubscribedAt   *time.Time       `db:"unsubscribed_at" json:"unsubscribedAt"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

type SubscriberFilter struct {
	Status SubscriberStatus `form:"status"`
	Search string           `form:"q"`
}

type ReportType string

const (
	ReportTypeAnnual    ReportType = "annual"
	ReportTypeFinancial ReportType = "financial"
	ReportTypeActivity  ReportType = "activity"
)

func (t ReportType) Valid() bool {
	return t == ReportTypeAnnual || t == ReportTypeFinancial || t == ReportTypeActivity
}

// Report.IsActive is a publication flag; deleting a report removes the row.
type Report struct {
	ID         int64      `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Year       int        `db:"year" json:"year"`
	ReportType ReportType `db:"report_type" json:"reportType"`
	Content    *string    `db:"content" json:"content"`
	FileURL    *string    `db:"file_url" json:"fileUrl"`
	IsActive   bool       `db:"is_active" json:"isActive"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

type ReportFilter struct {
	Year       *int       `form:"year"`
	ReportType ReportType `form:"type"`
	Active     *bool      `form:"active"`
}

type Menu struct {
	ID        int64     `db:"id" json:"id"`
	ParentID  *int64    `db:"parent_id" json:"parentId"`
	Title     string    `db:"title" json:"title"`
	URL       *string   `db:"url" json:"url"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type BannerPosition string

const (
	BannerPositionMain  BannerPosition = "main"
	BannerPositionSub   BannerPosition = "sub"
	BannerPositionPopup BannerPosition = "popup"
)

func (p BannerPosition) Valid() bool {
	return p == BannerPositionMain || p == BannerPositionSub || p == BannerPositionPopup
}

type Banner struct {
	ID        int64          `db:"id" json:"id"`
	Title     string         `db:"title" json:"title"`
	ImageURL  string         `db:"image_url" json:"imageUrl"`
	LinkURL   *string        `db:"link_url" json:"linkUrl"`
	Position  BannerPosition `db:"position" json:"position"`
	SortOrder int            `db:"sort_order" json:"sortOrder"`
	IsActive  bool           `db:"is_active" json:"isActive"`
	StartsAt  *time.Time     `db:"starts_at" json:"startsAt"`
	EndsAt    *time.Time     `db:"ends_at" json:"endsAt"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// Visible reports whether the banner should be shown at now.
func (b *Banner) Visible(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && now.After(*b.EndsAt) {
		return false
	}
	return true
}

type BannerFilter struct {
	Position BannerPosition `form:"position"`
	Active   *bool          `form:"active"`
}

type OrganizationType string

const (
	OrganizationTypeChurch  OrganizationType = "church"
	OrganizationTypePartner OrganizationType = "partner"
	OrganizationTypeBranch  OrganizationType = "branch"
)

func (t OrganizationType) Valid() bool {
	return t == OrganizationTypeChurch || t == OrganizationTypePartner || t == OrganizationTypeBranch
}

type Organization struct {
	ID               int64            `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	OrganizationType OrganizationType `db:"organization_type" json:"organizationType"`
	Region           *string          `db:"region" json:"region"`
	Address          *string          `db:"address" json:"address"`
	Phone            *string          `db:"phone" json:"phone"`
	Email            *string          `db:"email" json:"email"`
	Website          *string          `db:"website" json:"website"`
	Description      *string          `db:"description" json:"description"`
	SortOrder        int              `db:"sort_order" json:"sortOrder"`
	IsActive         bool             `db:"is_active" json:"isActive"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

type OrganizationFilter struct {
	OrganizationType OrganizationType `form:"type"`
	Region           string           `form:"region"`
	Active           *bool            `form:"active"`
	Search           string           `form:"q"`
}
