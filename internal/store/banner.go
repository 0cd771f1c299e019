package store

import (
	"context"
	"time"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const bannerTableName = "banners"

type BannerRepository struct {
	table[types.Banner]
}

func NewBannerRepository(d *db.DB) *BannerRepository {
	return &BannerRepository{table: newTable[types.Banner](d, bannerTableName, "banner")}
}

func (r *BannerRepository) Banner(ctx context.Context, id int64) (*types.Banner, error) {
	return r.byID(ctx, id)
}

func (r *BannerRepository) Banners(ctx context.Context, filter types.BannerFilter, page types.PageRequest) (*types.Page[types.Banner], error) {
	var conds sq.And
	if filter.Position != "" {
		conds = append(conds, sq.Eq{"position": filter.Position})
	}
	if filter.Active != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.Active})
	}

	return r.page(ctx, whereAll(conds), page, "position ASC", "sort_order ASC", "id ASC")
}

// ActiveBanners returns the banners shown at at, optionally for one position.
func (r *BannerRepository) ActiveBanners(ctx context.Context, position types.BannerPosition, at time.Time) ([]*types.Banner, error) {
	conds := sq.And{
		sq.Eq{"is_active": true},
		sq.Or{sq.Eq{"starts_at": nil}, sq.LtOrEq{"starts_at": at}},
		sq.Or{sq.Eq{"ends_at": nil}, sq.GtOrEq{"ends_at": at}},
	}
	if position != "" {
		conds = append(conds, sq.Eq{"position": position})
	}

	return r.list(ctx, conds, "sort_order ASC", "id ASC")
}

func (r *BannerRepository) CreateBanner(ctx context.Context, banner *types.Banner) error {
	ts := now()
	banner.CreatedAt = ts
	banner.UpdatedAt = ts

	id, err := r.insert(ctx, banner)
	if err != nil {
		return err
	}

	banner.ID = id
	return nil
}

func (r *BannerRepository) UpdateBanner(ctx context.Context, banner *types.Banner) error {
	banner.UpdatedAt = now()
	return r.update(ctx, banner.ID, banner)
}

func (r *BannerRepository) SaveBanner(ctx context.Context, banner *types.Banner) error {
	if banner.ID == 0 {
		return r.CreateBanner(ctx, banner)
	}
	return r.UpdateBanner(ctx, banner)
}

func (r *BannerRepository) DeleteBanner(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
