package dto

import (
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

type CreateCategoryRequest struct {
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description *string            `json:"description"`
	ParentID    *int64             `json:"parentId"`
	Type        types.CategoryType `json:"type"`
	SortOrder   *int               `json:"sortOrder"`
	IsActive    *bool              `json:"isActive"`
}

// ToModel applies the defaults: active, sort order 0.
func (r CreateCategoryRequest) ToModel() *types.Category {
	c := &types.Category{
		Name:        trim(r.Name),
		Slug:        types.NormalizeSlug(r.Slug),
		Description: utils.TrimmedPtr(r.Description),
		ParentID:    r.ParentID,
		Type:        r.Type,
		IsActive:    true,
	}
	if r.SortOrder != nil {
		c.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	return c
}

// UpdateCategoryRequest is a partial update. A ParentID of 0 moves the
// category to the root.
type UpdateCategoryRequest struct {
	Name        *string             `json:"name"`
	Slug        *string             `json:"slug"`
	Description *string             `json:"description"`
	ParentID    *int64              `json:"parentId"`
	Type        *types.CategoryType `json:"type"`
	SortOrder   *int                `json:"sortOrder"`
	IsActive    *bool               `json:"isActive"`
}

func (r UpdateCategoryRequest) Apply(c *types.Category) {
	if r.Name != nil {
		c.Name = trim(*r.Name)
	}
	if r.Slug != nil {
		c.Slug = types.NormalizeSlug(*r.Slug)
	}
	if r.Description != nil {
		c.Description = utils.TrimmedPtr(r.Description)
	}
	if r.ParentID != nil {
		if *r.ParentID == 0 {
			c.ParentID = nil
		} else {
			c.ParentID = r.ParentID
		}
	}
	if r.Type != nil {
		c.Type = *r.Type
	}
	if r.SortOrder != nil {
		c.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}

type CategoryResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description *string            `json:"description"`
	ParentID    *int64             `json:"parentId"`
	Type        types.CategoryType `json:"type"`
	SortOrder   int                `json:"sortOrder"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`

	Parent   *CategoryResponse   `json:"parent,omitempty"`
	Children []*CategoryResponse `json:"children,omitempty"`
}

func NewCategoryResponse(c *types.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ParentID:    c.ParentID,
		Type:        c.Type,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryTree nests categories under their parents. Input order is kept
// among siblings; orphans whose parent is missing become roots.
func CategoryTree(categories []*types.Category) []*CategoryResponse {
	nodes := make(map[int64]*CategoryResponse, len(categories))
	for _, c := range categories {
		nodes[c.ID] = NewCategoryResponse(c)
	}

	roots := make([]*CategoryResponse, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}
