package types

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

type Post struct {
	ID             int64      `db:"id" json:"id"`
	CategoryID     int64      `db:"category_id" json:"categoryId"`
	UserID         int64      `db:"user_id" json:"userId"`
	Title          string     `db:"title" json:"title"`
	Slug           *string    `db:"slug" json:"slug"`
	Content        string     `db:"content" json:"content"`
	Summary        *string    `db:"summary" json:"summary"`
	ThumbnailURL   *string    `db:"thumbnail_url" json:"thumbnailUrl"`
	Status         PostStatus `db:"status" json:"status"`
	IsNotice       bool       `db:"is_notice" json:"isNotice"`
	ViewCount      int64      `db:"view_count" json:"viewCount"`
	AttachmentURLs StringList `db:"attachment_urls" json:"attachmentUrls"`
	PublishedAt    *time.Time `db:"published_at" json:"publishedAt"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

type PostFilter struct {
	CategoryID *int64     `form:"categoryId"`
	UserID     *int64     `form:"userId"`
	Status     PostStatus `form:"status"`
	IsNotice   *bool      `form:"notice"`
	Search     string     `form:"q"`
	DateRange
}
