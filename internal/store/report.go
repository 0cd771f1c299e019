package store

import (
	"context"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const reportTableName = "reports"

type ReportRepository struct {
	table[types.Report]
}

func NewReportRepository(d *db.DB) *ReportRepository {
	return &ReportRepository{table: newTable[types.Report](d, reportTableName, "report")}
}

func (r *ReportRepository) Report(ctx context.Context, id int64) (*types.Report, error) {
	return r.byID(ctx, id)
}

func (r *ReportRepository) Reports(ctx context.Context, filter types.ReportFilter, page types.PageRequest) (*types.Page[types.Report], error) {
	var conds sq.And
	if filter.Year != nil {
		conds = append(conds, sq.Eq{"year": *filter.Year})
	}
	if filter.ReportType != "" {
		conds = append(conds, sq.Eq{"report_type": filter.ReportType})
	}
	if filter.Active != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.Active})
	}

	return r.page(ctx, whereAll(conds), page, "year DESC", "id DESC")
}

func (r *ReportRepository) CreateReport(ctx context.Context, report *types.Report) error {
	ts := now()
	report.CreatedAt = ts
	report.UpdatedAt = ts

	id, err := r.insert(ctx, report)
	if err != nil {
		return err
	}

	report.ID = id
	return nil
}

func (r *ReportRepository) UpdateReport(ctx context.Context, report *types.Report) error {
	report.UpdatedAt = now()
	return r.update(ctx, report.ID, report)
}

func (r *ReportRepository) SaveReport(ctx context.Context, report *types.Report) error {
	if report.ID == 0 {
		return r.CreateReport(ctx, report)
	}
	return r.UpdateReport(ctx, report)
}

// DeleteReport removes the row; is_active only controls publication.
func (r *ReportRepository) DeleteReport(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
