package store

import (
	"context"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const menuTableName = "menus"

type MenuRepository struct {
	table[types.Menu]
}

func NewMenuRepository(d *db.DB) *MenuRepository {
	return &MenuRepository{table: newTable[types.Menu](d, menuTableName, "menu")}
}

func (r *MenuRepository) Menu(ctx context.Context, id int64) (*types.Menu, error) {
	return r.byID(ctx, id)
}

// Menus returns the flat list ordered for tree assembly.
func (r *MenuRepository) Menus(ctx context.Context, activeOnly bool) ([]*types.Menu, error) {
	var cond sq.Sqlizer
	if activeOnly {
		cond = sq.Eq{"is_active": true}
	}
	return r.list(ctx, cond, "sort_order ASC", "id ASC")
}

func (r *MenuRepository) MenuByTitle(ctx context.Context, parentID *int64, title string) (*types.Menu, error) {
	return r.get(ctx, sq.Eq{"parent_id": parentID, "title": title})
}

func (r *MenuRepository) ChildrenCount(ctx context.Context, id int64) (int64, error) {
	return r.count(ctx, sq.Eq{"parent_id": id})
}

func (r *MenuRepository) CreateMenu(ctx context.Context, menu *types.Menu) error {
	ts := now()
	menu.CreatedAt = ts
	menu.UpdatedAt = ts

	id, err := r.insert(ctx, menu)
	if err != nil {
		return err
	}

	menu.ID = id
	return nil
}

func (r *MenuRepository) UpdateMenu(ctx context.Context, menu *types.Menu) error {
	menu.UpdatedAt = now()
	return r.update(ctx, menu.ID, menu)
}

func (r *MenuRepository) SaveMenu(ctx context.Context, menu *types.Menu) error {
	if menu.ID == 0 {
		return r.CreateMenu(ctx, menu)
	}
	return r.UpdateMenu(ctx, menu)
}

func (r *MenuRepository) DeleteMenu(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
