package types

import (
	"regexp"
	"strings"
	"time"
)

type CategoryType string

const (
	CategoryTypeNotice   CategoryType = "notice"
	CategoryTypeNews     CategoryType = "news"
	CategoryTypeMedia    CategoryType = "media"
	CategoryTypeBoard    CategoryType = "board"
	CategoryTypeGallery  CategoryType = "gallery"
	CategoryTypeResource CategoryType = "resource"
)

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeNotice, CategoryTypeNews, CategoryTypeMedia,
		CategoryTypeBoard, CategoryTypeGallery, CategoryTypeResource:
		return true
	}
	return false
}

type Category struct {
	ID          int64        `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Slug        string       `db:"slug" json:"slug"`
	Description *string      `db:"description" json:"description"`
	ParentID    *int64       `db:"parent_id" json:"parentId"`
	Type        CategoryType `db:"type" json:"type"`
	SortOrder   int          `db:"sort_order" json:"sortOrder"`
	IsActive    bool         `db:"is_active" json:"isActive"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

type CategoryFilter struct {
	Type     CategoryType `form:"type"`
	ParentID *int64       `form:"parentId"`
	Active   *bool        `form:"active"`
	Search   string       `form:"q"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug accepts lowercase ascii words joined by single hyphens.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// NormalizeSlug lowercases and trims a caller supplied slug.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
