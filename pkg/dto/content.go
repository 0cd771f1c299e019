package dto

import (
	"strings"
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

type SubscribeRequest struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (r SubscribeRequest) Normalized() (email string, name *string) {
	return strings.ToLower(trim(r.Email)), utils.TrimmedPtr(r.Name)
}

type SubscriberResponse struct {
	ID             int64                  `json:"id"`
	Email          string                 `json:"email"`
	Name           *string                `json:"name"`
	Status         types.SubscriberStatus `json:"status"`
	SubscribedAt   time.Time              `json:"subscribedAt"`
	UnsubscribedAt *time.Time             `json:"unsubscribedAt"`
}

func NewSubscriberResponse(s *types.NewsletterSubscriber) *SubscriberResponse {
	if s == nil {
		return nil
	}
	return &SubscriberResponse{
		ID:             s.ID,
		Email:          s.Email,
		Name:           s.Name,
		Status:         s.Status,
		SubscribedAt:   s.SubscribedAt,
		UnsubscribedAt: s.UnsubscribedAt,
	}
}

type CreateReportRequest struct {
	Title      string           `json:"title"`
	Year       int              `json:"year"`
	ReportType types.ReportType `json:"reportType"`
	Content    *string          `json:"content"`
	FileURL    *string          `json:"fileUrl"`
	IsActive   *bool            `json:"isActive"`
}

func (r CreateReportRequest) ToModel() *types.Report {
	rep := &types.Report{
		Title:      trim(r.Title),
		Year:       r.Year,
		ReportType: r.ReportType,
		Content:    utils.TrimmedPtr(r.Content),
		FileURL:    utils.TrimmedPtr(r.FileURL),
		IsActive:   true,
	}
	if r.IsActive != nil {
		rep.IsActive = *r.IsActive
	}
	return rep
}

type UpdateReportRequest struct {
	Title      *string           `json:"title"`
	Year       *int              `json:"year"`
	ReportType *types.ReportType `json:"reportType"`
	Content    *string           `json:"content"`
	FileURL    *string           `json:"fileUrl"`
	IsActive   *bool             `json:"isActive"`
}

func (r UpdateReportRequest) Apply(rep *types.Report) {
	if r.Title != nil {
		rep.Title = trim(*r.Title)
	}
	if r.Year != nil {
		rep.Year = *r.Year
	}
	if r.ReportType != nil {
		rep.ReportType = *r.ReportType
	}
	if r.Content != nil {
		rep.Content = utils.TrimmedPtr(r.Content)
	}
	if r.FileURL != nil {
		rep.FileURL = utils.TrimmedPtr(r.FileURL)
	}
	if r.IsActive != nil {
		rep.IsActive = *r.IsActive
	}
}

type CreateMenuRequest struct {
	ParentID  *int64  `json:"parentId"`
	Title     string  `json:"title"`
	URL       *string `json:"url"`
	SortOrder *int    `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

func (r CreateMenuRequest) ToModel() *types.Menu {
	m := &types.Menu{
		ParentID: r.ParentID,
		Title:    trim(r.Title),
		URL:      utils.TrimmedPtr(r.URL),
		IsActive: true,
	}
	if r.SortOrder != nil {
		m.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

// UpdateMenuRequest follows the category rule: ParentID 0 moves the menu
// to the root.
type UpdateMenuRequest struct {
	ParentID  *int64  `json:"parentId"`
	Title     *string `json:"title"`
	URL       *string `json:"url"`
	SortOrder *int    `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

func (r UpdateMenuRequest) Apply(m *types.Menu) {
	if r.ParentID != nil {
		if *r.ParentID == 0 {
			m.ParentID = nil
		} else {
			m.ParentID = r.ParentID
		}
	}
	if r.Title != nil {
		m.Title = trim(*r.Title)
	}
	if r.URL != nil {
		m.URL = utils.TrimmedPtr(r.URL)
	}
	if r.SortOrder != nil {
		m.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

type MenuResponse struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parentId"`
	Title     string    `json:"title"`
	URL       *string   `json:"url"`
	SortOrder int       `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Children []*MenuResponse `json:"children"`
}

func NewMenuResponse(m *types.Menu) *MenuResponse {
	if m == nil {
		return nil
	}
	return &MenuResponse{
		ID:        m.ID,
		ParentID:  m.ParentID,
		Title:     m.Title,
		URL:       m.URL,
		SortOrder: m.SortOrder,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Children:  []*MenuResponse{},
	}
}

// MenuTree nests menus under their parents, keeping the input order at
// every level. Menus whose parent is missing from the input become roots.
func MenuTree(menus []*types.Menu) []*MenuResponse {
	nodes := make(map[int64]*MenuResponse, len(menus))
	for _, m := range menus {
		nodes[m.ID] = NewMenuResponse(m)
	}

	roots := make([]*MenuResponse, 0)
	for _, m := range menus {
		node := nodes[m.ID]
		if m.ParentID != nil {
			if parent, ok := nodes[*m.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

type CreateBannerRequest struct {
	Title     string               `json:"title"`
	ImageURL  string               `json:"imageUrl"`
	LinkURL   *string              `json:"linkUrl"`
	Position  types.BannerPosition `json:"position"`
	SortOrder *int                 `json:"sortOrder"`
	IsActive  *bool                `json:"isActive"`
	StartsAt  *time.Time           `json:"startsAt"`
	EndsAt    *time.Time           `json:"endsAt"`
}

func (r CreateBannerRequest) ToModel() *types.Banner {
	b := &types.Banner{
		Title:    trim(r.Title),
		ImageURL: trim(r.ImageURL),
		LinkURL:  utils.TrimmedPtr(r.LinkURL),
		Position: r.Position,
		IsActive: true,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
	}
	if b.Position == "" {
		b.Position = types.BannerPositionMain
	}
	if r.SortOrder != nil {
		b.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	return b
}

type UpdateBannerRequest struct {
	Title     *string               `json:"title"`
	ImageURL  *string               `json:"imageUrl"`
	LinkURL   *string               `json:"linkUrl"`
	Position  *types.BannerPosition `json:"position"`
	SortOrder *int                  `json:"sortOrder"`
	IsActive  *bool                 `json:"isActive"`
	StartsAt  *time.Time            `json:"startsAt"`
	EndsAt    *time.Time            `json:"endsAt"`
}

func (r UpdateBannerRequest) Apply(b *types.Banner) {
	if r.Title != nil {
		b.Title = trim(*r.Title)
	}
	if r.ImageURL != nil {
		b.ImageURL = trim(*r.ImageURL)
	}
	if r.LinkURL != nil {
		b.LinkURL = utils.TrimmedPtr(r.LinkURL)
	}
	if r.Position != nil {
		b.Position = *r.Position
	}
	if r.SortOrder != nil {
		b.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	if r.StartsAt != nil {
		b.StartsAt = r.StartsAt
	}
	if r.EndsAt != nil {
		b.EndsAt = r.EndsAt
	}
}

type CreateOrganizationRequest struct {
	Name             string                 `json:"name"`
	OrganizationType types.OrganizationType `json:"organizationType"`
	Region           *string                `json:"region"`
	Address          *string                `json:"address"`
	Phone            *string                `json:"phone"`
	Email            *string                `json:"email"`
	Website          *string                `json:"website"`
	Description      *string                `json:"description"`
	SortOrder        *int                   `json:"sortOrder"`
	IsActive         *bool                  `json:"isActive"`
}

func (r CreateOrganizationRequest) ToModel() *types.Organization {
	o := &types.Organization{
		Name:             trim(r.Name),
		OrganizationType: r.OrganizationType,
		Region:           utils.TrimmedPtr(r.Region),
		Address:          utils.TrimmedPtr(r.Address),
		Phone:            utils.TrimmedPtr(r.Phone),
		Email:            utils.TrimmedPtr(r.Email),
		Website:          utils.TrimmedPtr(r.Website),
		Description:      utils.TrimmedPtr(r.Description),
		IsActive:         true,
	}
	if r.SortOrder != nil {
		o.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		o.IsActive = *r.IsActive
	}
	return o
}

type UpdateOrganizationRequest struct {
	Name             *string                 `json:"name"`
	OrganizationType *types.OrganizationType `json:"organizationType"`
	Region           *string                 `json:"region"`
	Address          *string                 `json:"address"`
	Phone            *string                 `json:"phone"`
	Email            *string                 `json:"email"`
	Website          *string                 `json:"website"`
	Description      *string                 `json:"description"`
	SortOrder        *int                    `json:"sortOrder"`
	IsActive         *bool                   `json:"isActive"`
}

func (r UpdateOrganizationRequest) Apply(o *types.Organization) {
	if r.Name != nil {
		o.Name = trim(*r.Name)
	}
	if r.OrganizationType != nil {
		o.OrganizationType = *r.OrganizationType
	}
	if r.Region != nil {
		o.Region = utils.TrimmedPtr(r.Region)
	}
	if r.Address != nil {
		o.Address = utils.TrimmedPtr(r.Address)
	}
	if r.Phone != nil {
		o.Phone = utils.TrimmedPtr(r.Phone)
	}
	if r.Email != nil {
		o.Email = utils.TrimmedPtr(r.Email)
	}
	if r.Website != nil {
		o.Website = utils.TrimmedPtr(r.Website)
	}
	if r.Description != nil {
		o.Description = utils.TrimmedPtr(r.Description)
	}
	if r.SortOrder != nil {
		o.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		o.IsActive = *r.IsActive
	}
}
