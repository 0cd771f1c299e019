package store

import (
	"context"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const organizationTableName = "organizations"

type OrganizationRepository struct {
	table[types.Organization]
}

func NewOrganizationRepository(d *db.DB) *OrganizationRepository {
	return &OrganizationRepository{table: newTable[types.Organization](d, organizationTableName, "organization")}
}

func (r *OrganizationRepository) Organization(ctx context.Context, id int64) (*types.Organization, error) {
	return r.byID(ctx, id)
}

func (r *OrganizationRepository) Organizations(ctx context.Context, filter types.OrganizationFilter, page types.PageRequest) (*types.Page[types.Organization], error) {
	var conds sq.And
	if filter.OrganizationType != "" {
		conds = append(conds, sq.Eq{"organization_type": filter.OrganizationType})
	}
	if filter.Region != "" {
		conds = append(conds, sq.Eq{"region": filter.Region})
	}
	if filter.Active != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.Active})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "name", "region", "address"))
	}

	return r.page(ctx, whereAll(conds), page, "sort_order ASC", "name ASC", "id ASC")
}

func (r *OrganizationRepository) CreateOrganization(ctx context.Context, org *types.Organization) error {
	ts := now()
	org.CreatedAt = ts
	org.UpdatedAt = ts

	id, err := r.insert(ctx, org)
	if err != nil {
		return err
	}

	org.ID = id
	return nil
}

func (r *OrganizationRepository) UpdateOrganization(ctx context.Context, org *types.Organization) error {
	org.UpdatedAt = now()
	return r.update(ctx, org.ID, org)
}

func (r *OrganizationRepository) SaveOrganization(ctx context.Context, org *types.Organization) error {
	if org.ID == 0 {
		return r.CreateOrganization(ctx, org)
	}
	return r.UpdateOrganization(ctx, org)
}

func (r *OrganizationRepository) DeleteOrganization(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
