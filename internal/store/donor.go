package store

import (
	"context"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const (
	sponsorTableName  = "sponsors"
	donationTableName = "donations"
)

type SponsorRepository struct {
	table[types.Sponsor]
}

func NewSponsorRepository(d *db.DB) *SponsorRepository {
	return &SponsorRepository{table: newTable[types.Sponsor](d, sponsorTableName, "sponsor")}
}

func (r *SponsorRepository) Sponsor(ctx context.Context, id int64) (*types.Sponsor, error) {
	return r.byID(ctx, id)
}

func (r *SponsorRepository) SponsorsByIDs(ctx context.Context, ids []int64) ([]*types.Sponsor, error) {
	if len(ids) == 0 {
		return []*types.Sponsor{}, nil
	}
	return r.list(ctx, sq.Eq{"id": ids}, "id ASC")
}

func (r *SponsorRepository) Sponsors(ctx context.Context, filter types.SponsorFilter, page types.PageRequest) (*types.Page[types.Sponsor], error) {
	var conds sq.And
	if filter.SponsorType != "" {
		conds = append(conds, sq.Eq{"sponsor_type": filter.SponsorType})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "name", "organization_name", "phone", "email"))
	}

	return r.page(ctx, whereAll(conds), page, "created_at DESC", "id DESC")
}

func (r *SponsorRepository) CreateSponsor(ctx context.Context, sponsor *types.Sponsor) error {
	ts := now()
	sponsor.CreatedAt = ts
	sponsor.UpdatedAt = ts

	id, err := r.insert(ctx, sponsor)
	if err != nil {
		return err
	}

	sponsor.ID = id
	return nil
}

func (r *SponsorRepository) UpdateSponsor(ctx context.Context, sponsor *types.Sponsor) error {
	sponsor.UpdatedAt = now()
	return r.update(ctx, sponsor.ID, sponsor)
}

func (r *SponsorRepository) SaveSponsor(ctx context.Context, sponsor *types.Sponsor) error {
	if sponsor.ID == 0 {
		return r.CreateSponsor(ctx, sponsor)
	}
	return r.UpdateSponsor(ctx, sponsor)
}

func (r *SponsorRepository) DeleteSponsor(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

type DonationRepository struct {
	table[types.Donation]
}

func NewDonationRepository(d *db.DB) *DonationRepository {
	return &DonationRepository{table: newTable[types.Donation](d, donationTableName, "donation")}
}

func (r *DonationRepository) Donation(ctx context.Context, id int64) (*types.Donation, error) {
	return r.byID(ctx, id)
}

func (r *DonationRepository) Donations(ctx context.Context, filter types.DonationFilter, page types.PageRequest) (*types.Page[types.Donation], error) {
	var conds sq.And
	if filter.SponsorID != nil {
		conds = append(conds, sq.Eq{"sponsor_id": *filter.SponsorID})
	}
	if filter.DonationType != "" {
		conds = append(conds, sq.Eq{"donation_type": filter.DonationType})
	}
	if filter.PaymentMethod != "" {
		conds = append(conds, sq.Eq{"payment_method": filter.PaymentMethod})
	}
	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	conds = append(conds, dateRange("created_at", filter.DateRange)...)

	return r.page(ctx, whereAll(conds), page, "created_at DESC", "id DESC")
}

func (r *DonationRepository) DonationsBySponsor(ctx context.Context, sponsorID int64) ([]*types.Donation, error) {
	return r.list(ctx, sq.Eq{"sponsor_id": sponsorID}, "created_at DESC", "id DESC")
}

func (r *DonationRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {
	ts := now()
	donation.CreatedAt = ts
	donation.UpdatedAt = ts

	id, err := r.insert(ctx, donation)
	if err != nil {
		return err
	}

	donation.ID = id
	return nil
}

func (r *DonationRepository) UpdateDonation(ctx context.Context, donation *types.Donation) error {
	donation.UpdatedAt = now()
	return r.update(ctx, donation.ID, donation)
}

func (r *DonationRepository) SaveDonation(ctx context.Context, donation *types.Donation) error {
	if donation.ID == 0 {
		return r.CreateDonation(ctx, donation)
	}
	return r.UpdateDonation(ctx, donation)
}

func (r *DonationRepository) DeleteDonation(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
