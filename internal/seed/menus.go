package seed

import (
	"context"
	"fmt"

	"sharehope/internal/utils"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type MenuRepository interface {
	MenuByTitle(ctx context.Context, parentID *int64, title string) (*types.Menu, error)
	SaveMenu(ctx context.Context, menu *types.Menu) error
}

type MenuItem struct {
	Title    string
	URL      string
	Children []MenuItem
}

func DefaultMenus() []MenuItem {
	return []MenuItem{
		{Title: "기관소개", URL: "/about", Children: []MenuItem{
			{Title: "인사말", URL: "/about/greeting"},
			{Title: "연혁", URL: "/about/history"},
			{Title: "협력기관", URL: "/about/organizations"},
			{Title: "연간보고서", URL: "/about/reports"},
		}},
		{Title: "상담", URL: "/consultations", Children: []MenuItem{
			{Title: "상담신청", URL: "/consultations/new"},
			{Title: "상담현황", URL: "/consultations"},
		}},
		{Title: "후원", URL: "/donate", Children: []MenuItem{
			{Title: "정기후원", URL: "/donate/regular"},
			{Title: "일시후원", URL: "/donate/once"},
		}},
		{Title: "자료실", URL: "/resources"},
		{Title: "커뮤니티", URL: "/board", Children: []MenuItem{
			{Title: "공지사항", URL: "/board/notice"},
			{Title: "소식", URL: "/board/news"},
			{Title: "갤러리", URL: "/board/gallery"},
		}},
	}
}

// SeedMenus keys menus on (parent, title) and keeps their order in sync.
func SeedMenus(ctx context.Context, logger logrus.FieldLogger, repo MenuRepository) error {
	items := DefaultMenus()

	logger.WithField("count", len(items)).Info("syncing menus")

	return seedMenuLevel(ctx, repo, nil, items)
}

func seedMenuLevel(ctx context.Context, repo MenuRepository, parentID *int64, items []MenuItem) error {
	for i, item := range items {
		menu, err := repo.MenuByTitle(ctx, parentID, item.Title)
		if err != nil {
			return fmt.Errorf("failed to fetch menu %s: %w", item.Title, err)
		}
		if menu == nil {
			menu = &types.Menu{ParentID: parentID, Title: item.Title}
		}

		menu.URL = utils.StringPtr(item.URL)
		menu.SortOrder = i + 1
		menu.IsActive = true

		if err := repo.SaveMenu(ctx, menu); err != nil {
			return fmt.Errorf("failed to save menu %s: %w", item.Title, err)
		}

		if len(item.Children) > 0 {
			id := menu.ID
			if err := seedMenuLevel(ctx, repo, &id, item.Children); err != nil {
				return err
			}
		}
	}

	return nil
}
