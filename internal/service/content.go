package service

import (
	"context"
	"fmt"
	"time"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type ReportRepository interface {
	Report(ctx context.Context, id int64) (*types.Report, error)
	Reports(ctx context.Context, filter types.ReportFilter, page types.PageRequest) (*types.Page[types.Report], error)
	CreateReport(ctx context.Context, report *types.Report) error
	UpdateReport(ctx context.Context, report *types.Report) error
	DeleteReport(ctx context.Context, id int64) error
}

type MenuRepository interface {
	Menu(ctx context.Context, id int64) (*types.Menu, error)
	Menus(ctx context.Context, activeOnly bool) ([]*types.Menu, error)
	ChildrenCount(ctx context.Context, id int64) (int64, error)
	CreateMenu(ctx context.Context, menu *types.Menu) error
	UpdateMenu(ctx context.Context, menu *types.Menu) error
	DeleteMenu(ctx context.Context, id int64) error
}

type BannerRepository interface {
	Banner(ctx context.Context, id int64) (*types.Banner, error)
	Banners(ctx context.Context, filter types.BannerFilter, page types.PageRequest) (*types.Page[types.Banner], error)
	ActiveBanners(ctx context.Context, position types.BannerPosition, at time.Time) ([]*types.Banner, error)
	CreateBanner(ctx context.Context, banner *types.Banner) error
	UpdateBanner(ctx context.Context, banner *types.Banner) error
	DeleteBanner(ctx context.Context, id int64) error
}

type OrganizationRepository interface {
	Organization(ctx context.Context, id int64) (*types.Organization, error)
	Organizations(ctx context.Context, filter types.OrganizationFilter, page types.PageRequest) (*types.Page[types.Organization], error)
	CreateOrganization(ctx context.Context, org *types.Organization) error
	UpdateOrganization(ctx context.Context, org *types.Organization) error
	DeleteOrganization(ctx context.Context, id int64) error
}

// ContentService covers the site furniture: reports, menus, banners and
// the organization directory.
type ContentService struct {
	logger        logrus.FieldLogger
	reports       ReportRepository
	menus         MenuRepository
	banners       BannerRepository
	organizations OrganizationRepository
}

func NewContentService(
	logger logrus.FieldLogger,
	reports ReportRepository,
	menus MenuRepository,
	banners BannerRepository,
	organizations OrganizationRepository,
) *ContentService {
	return &ContentService{
		logger:        logger,
		reports:       reports,
		menus:         menus,
		banners:       banners,
		organizations: organizations,
	}
}

func (s *ContentService) CreateReport(ctx context.Context, req dto.CreateReportRequest) (*types.Report, error) {
	report := req.ToModel()
	if err := validateReport(report); err != nil {
		return nil, err
	}

	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.logger.WithField("report_id", report.ID).Info("report created")

	return report, nil
}

func (s *ContentService) GetReport(ctx context.Context, id int64) (*types.Report, error) {
	if err := validID("report", id); err != nil {
		return nil, err
	}

	report, err := s.reports.Report(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	if report == nil {
		return nil, types.NotFound("report", id)
	}

	return report, nil
}

func (s *ContentService) ListReports(ctx context.Context, filter types.ReportFilter, page types.PageRequest) (*types.Page[types.Report], error) {
	reports, err := s.reports.Reports(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *ContentService) UpdateReport(ctx context.Context, id int64, req dto.UpdateReportRequest) (*types.Report, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(report)
	if err := validateReport(report); err != nil {
		return nil, err
	}

	if err := s.reports.UpdateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	return report, nil
}

// DeleteReport removes the row; reports are not soft-deleted.
func (s *ContentService) DeleteReport(ctx context.Context, id int64) error {
	if err := validID("report", id); err != nil {
		return err
	}

	if err := s.reports.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	s.logger.WithField("report_id", id).Info("report deleted")

	return nil
}

func (s *ContentService) CreateMenu(ctx context.Context, req dto.CreateMenuRequest) (*dto.MenuResponse, error) {
	menu := req.ToModel()
	if err := firstError(required("title", menu.Title), maxLength("title", menu.Title, 100)); err != nil {
		return nil, err
	}

	if menu.ParentID != nil {
		if err := s.checkMenuAncestry(ctx, 0, *menu.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.menus.CreateMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	return dto.NewMenuResponse(menu), nil
}

func (s *ContentService) GetMenu(ctx context.Context, id int64) (*dto.MenuResponse, error) {
	menu, err := s.mustGetMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewMenuResponse(menu), nil
}

// MenuTree returns the navigation tree.
func (s *ContentService) MenuTree(ctx context.Context, activeOnly bool) ([]*dto.MenuResponse, error) {
	menus, err := s.menus.Menus(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return dto.MenuTree(menus), nil
}

func (s *ContentService) UpdateMenu(ctx context.Context, id int64, req dto.UpdateMenuRequest) (*dto.MenuResponse, error) {
	menu, err := s.mustGetMenu(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(menu)
	if err := firstError(required("title", menu.Title), maxLength("title", menu.Title, 100)); err != nil {
		return nil, err
	}

	if menu.ParentID != nil {
		if err := s.checkMenuAncestry(ctx, menu.ID, *menu.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.menus.UpdateMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}

	return dto.NewMenuResponse(menu), nil
}

func (s *ContentService) DeleteMenu(ctx context.Context, id int64) error {
	if _, err := s.mustGetMenu(ctx, id); err != nil {
		return err
	}

	children, err := s.menus.ChildrenCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count child menus: %w", err)
	}

	if children > 0 {
		return types.Conflict("menu", "menu has child menus")
	}

	if err := s.menus.DeleteMenu(ctx, id); err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}

	return nil
}

func (s *ContentService) CreateBanner(ctx context.Context, req dto.CreateBannerRequest) (*types.Banner, error) {
	banner := req.ToModel()
	if err := validateBanner(banner); err != nil {
		return nil, err
	}

	if err := s.banners.CreateBanner(ctx, banner); err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}

	return banner, nil
}

func (s *ContentService) GetBanner(ctx context.Context, id int64) (*types.Banner, error) {
	if err := validID("banner", id); err != nil {
		return nil, err
	}

	banner, err := s.banners.Banner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch banner: %w", err)
	}

	if banner == nil {
		return nil, types.NotFound("banner", id)
	}

	return banner, nil
}

func (s *ContentService) ListBanners(ctx context.Context, filter types.BannerFilter, page types.PageRequest) (*types.Page[types.Banner], error) {
	banners, err := s.banners.Banners(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

// ActiveBanners returns what is on display right now. An empty position
// means every position.
func (s *ContentService) ActiveBanners(ctx context.Context, position types.BannerPosition) ([]*types.Banner, error) {
	if position != "" && !position.Valid() {
		return nil, types.Invalid("position", fmt.Sprintf("unknown banner position %q", position))
	}

	banners, err := s.banners.ActiveBanners(ctx, position, now())
	if err != nil {
		return nil, fmt.Errorf("failed to list active banners: %w", err)
	}

	return banners, nil
}

func (s *ContentService) UpdateBanner(ctx context.Context, id int64, req dto.UpdateBannerRequest) (*types.Banner, error) {
	banner, err := s.GetBanner(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(banner)
	if err := validateBanner(banner); err != nil {
		return nil, err
	}

	if err := s.banners.UpdateBanner(ctx, banner); err != nil {
		return nil, fmt.Errorf("failed to update banner: %w", err)
	}

	return banner, nil
}

func (s *ContentService) DeleteBanner(ctx context.Context, id int64) error {
	if err := validID("banner", id); err != nil {
		return err
	}

	if err := s.banners.DeleteBanner(ctx, id); err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	return nil
}

func (s *ContentService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest) (*types.Organization, error) {
	org := req.ToModel()
	if err := validateOrganization(org); err != nil {
		return nil, err
	}

	if err := s.organizations.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

func (s *ContentService) GetOrganization(ctx context.Context, id int64) (*types.Organization, error) {
	if err := validID("organization", id); err != nil {
		return nil, err
	}

	org, err := s.organizations.Organization(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}

	if org == nil {
		return nil, types.NotFound("organization", id)
	}

	return org, nil
}

func (s *ContentService) ListOrganizations(ctx context.Context, filter types.OrganizationFilter, page types.PageRequest) (*types.Page[types.Organization], error) {
	if filter.OrganizationType != "" && !filter.OrganizationType.Valid() {
		return nil, types.Invalid("type", fmt.Sprintf("unknown organization type %q", filter.OrganizationType))
	}

	orgs, err := s.organizations.Organizations(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	return orgs, nil
}

func (s *ContentService) UpdateOrganization(ctx context.Context, id int64, req dto.UpdateOrganizationRequest) (*types.Organization, error) {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(org)
	if err := validateOrganization(org); err != nil {
		return nil, err
	}

	if err := s.organizations.UpdateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

func (s *ContentService) DeleteOrganization(ctx context.Context, id int64) error {
	if err := validID("organization", id); err != nil {
		return err
	}

	if err := s.organizations.DeleteOrganization(ctx, id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	return nil
}

func (s *ContentService) mustGetMenu(ctx context.Context, id int64) (*types.Menu, error) {
	if err := validID("menu", id); err != nil {
		return nil, err
	}

	menu, err := s.menus.Menu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}

	if menu == nil {
		return nil, types.NotFound("menu", id)
	}

	return menu, nil
}

func (s *ContentService) checkMenuAncestry(ctx context.Context, id, parentID int64) error {
	seen := map[int64]bool{}
	for current := &parentID; current != nil; {
		if *current == id {
			return types.Invalid("parentId", "menu cannot be moved under itself or its descendants")
		}

		if seen[*current] {
			return types.Invalid("parentId", "menu hierarchy contains a cycle")
		}
		seen[*current] = true

		ancestor, err := s.menus.Menu(ctx, *current)
		if err != nil {
			return fmt.Errorf("failed to fetch ancestor menu: %w", err)
		}

		if ancestor == nil {
			return types.Invalid("parentId", fmt.Sprintf("parent menu %d does not exist", *current))
		}

		current = ancestor.ParentID
	}

	return nil
}

func validateReport(r *types.Report) error {
	if err := firstError(required("title", r.Title), maxLength("title", r.Title, 255)); err != nil {
		return err
	}

	if r.Year < 1900 || r.Year > 9999 {
		return types.Invalid("year", "year is out of range")
	}

	if !r.ReportType.Valid() {
		return types.Invalid("reportType", fmt.Sprintf("unknown report type %q", r.ReportType))
	}

	return nil
}

func validateBanner(b *types.Banner) error {
	if err := firstError(
		required("title", b.Title),
		required("imageUrl", b.ImageURL),
	); err != nil {
		return err
	}

	if !b.Position.Valid() {
		return types.Invalid("position", fmt.Sprintf("unknown banner position %q", b.Position))
	}

	if b.StartsAt != nil && b.EndsAt != nil && b.EndsAt.Before(*b.StartsAt) {
		return types.Invalid("endsAt", "banner ends before it starts")
	}

	return nil
}

func validateOrganization(o *types.Organization) error {
	if err := firstError(required("name", o.Name), maxLength("name", o.Name, 100)); err != nil {
		return err
	}

	if !o.OrganizationType.Valid() {
		return types.Invalid("organizationType", fmt.Sprintf("unknown organization type %q", o.OrganizationType))
	}

	return nil
}
