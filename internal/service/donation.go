package service

import (
	"context"
	"fmt"
	"time"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type SponsorRepository interface {
	Sponsor(ctx context.Context, id int64) (*types.Sponsor, error)
	SponsorsByIDs(ctx context.Context, ids []int64) ([]*types.Sponsor, error)
	Sponsors(ctx context.Context, filter types.SponsorFilter, page types.PageRequest) (*types.Page[types.Sponsor], error)
	CreateSponsor(ctx context.Context, sponsor *types.Sponsor) error
	UpdateSponsor(ctx context.Context, sponsor *types.Sponsor) error
	DeleteSponsor(ctx context.Context, id int64) error
}

type DonationRepository interface {
	Donation(ctx context.Context, id int64) (*types.Donation, error)
	Donations(ctx context.Context, filter types.DonationFilter, page types.PageRequest) (*types.Page[types.Donation], error)
	DonationsBySponsor(ctx context.Context, sponsorID int64) ([]*types.Donation, error)
	CreateDonation(ctx context.Context, donation *types.Donation) error
	UpdateDonation(ctx context.Context, donation *types.Donation) error
	DeleteDonation(ctx context.Context, id int64) error
}

type DonationService struct {
	logger    logrus.FieldLogger
	tx        Transactor
	sponsors  SponsorRepository
	donations DonationRepository
}

func NewDonationService(logger logrus.FieldLogger, tx Transactor, sponsors SponsorRepository, donations DonationRepository) *DonationService {
	return &DonationService{
		logger:    logger,
		tx:        tx,
		sponsors:  sponsors,
		donations: donations,
	}
}

// Apply stores the sponsor and the donation together; neither is kept when
// either write fails.
func (s *DonationService) Apply(ctx context.Context, req dto.ApplyDonationRequest) (*dto.DonationResponse, error) {
	sponsor := req.Sponsor.ToModel()
	if err := validateSponsor(sponsor); err != nil {
		return nil, err
	}

	donation := req.Donation.ToModel()
	if err := donation.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.sponsors.CreateSponsor(ctx, sponsor); err != nil {
			return fmt.Errorf("failed to create sponsor: %w", err)
		}

		donation.SponsorID = sponsor.ID
		if err := s.donations.CreateDonation(ctx, donation); err != nil {
			return fmt.Errorf("failed to create donation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"donation_id": donation.ID,
		"sponsor_id":  sponsor.ID,
		"type":        donation.DonationType,
		"method":      donation.PaymentMethod,
	}).Info("donation applied")

	return donationResponse(donation, sponsor, now()), nil
}

func (s *DonationService) Get(ctx context.Context, id int64) (*dto.DonationResponse, error) {
	donation, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	sponsor, err := s.sponsors.Sponsor(ctx, donation.SponsorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sponsor: %w", err)
	}

	return donationResponse(donation, sponsor, now()), nil
}

func (s *DonationService) List(ctx context.Context, filter types.DonationFilter, page types.PageRequest) (*types.Page[dto.DonationResponse], error) {
	if err := filter.DateRange.Validate(); err != nil {
		return nil, err
	}

	donations, err := s.donations.Donations(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	ids := make([]int64, 0, len(donations.Data))
	seen := map[int64]bool{}
	for _, d := range donations.Data {
		if !seen[d.SponsorID] {
			seen[d.SponsorID] = true
			ids = append(ids, d.SponsorID)
		}
	}

	sponsors, err := s.sponsors.SponsorsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sponsors: %w", err)
	}

	byID := make(map[int64]*types.Sponsor, len(sponsors))
	for _, sponsor := range sponsors {
		byID[sponsor.ID] = sponsor
	}

	at := now()
	return types.MapPage(donations, func(d *types.Donation) *dto.DonationResponse {
		return donationResponse(d, byID[d.SponsorID], at)
	}), nil
}

func (s *DonationService) UpdateStatus(ctx context.Context, id int64, req dto.UpdateDonationStatusRequest) (*dto.DonationResponse, error) {
	if !req.Status.Valid() {
		return nil, types.Invalid("status", fmt.Sprintf("unknown donation status %q", req.Status))
	}

	donation, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	from := donation.Status
	donation.Status = req.Status

	if req.PaidAt != nil {
		donation.PaidAt = req.PaidAt
	} else if req.Status == types.DonationStatusCompleted && donation.PaidAt == nil {
		ts := now()
		donation.PaidAt = &ts
	}

	if req.Notes != nil {
		donation.Notes = req.Notes
	}

	if err := s.donations.UpdateDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"donation_id": donation.ID,
		"from":        from,
		"to":          donation.Status,
	}).Info("donation status changed")

	return donationResponse(donation, nil, now()), nil
}

func (s *DonationService) Delete(ctx context.Context, id int64) error {
	if err := validID("donation", id); err != nil {
		return err
	}

	if err := s.donations.DeleteDonation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	s.logger.WithField("donation_id", id).Info("donation deleted")

	return nil
}

// NextDebitDate reports the next CMS withdrawal on or after from.
func (s *DonationService) NextDebitDate(ctx context.Context, id int64, from time.Time) (*time.Time, error) {
	donation, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if donation.Status == types.DonationStatusCancelled || donation.Status == types.DonationStatusCompleted {
		return nil, nil
	}

	next, ok := donation.NextDebitDate(from)
	if !ok {
		return nil, nil
	}

	return &next, nil
}

// GetSponsor attaches every donation of the sponsor.
func (s *DonationService) GetSponsor(ctx context.Context, id int64) (*dto.SponsorResponse, error) {
	sponsor, err := s.mustGetSponsor(ctx, id)
	if err != nil {
		return nil, err
	}

	donations, err := s.donations.DonationsBySponsor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sponsor donations: %w", err)
	}

	out := dto.NewSponsorResponse(sponsor)
	out.Donations = make([]*dto.DonationResponse, 0, len(donations))

	at := now()
	for _, d := range donations {
		out.Donations = append(out.Donations, donationResponse(d, nil, at))
	}

	return out, nil
}

func (s *DonationService) ListSponsors(ctx context.Context, filter types.SponsorFilter, page types.PageRequest) (*types.Page[dto.SponsorResponse], error) {
	sponsors, err := s.sponsors.Sponsors(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	return types.MapPage(sponsors, dto.NewSponsorResponse), nil
}

func (s *DonationService) UpdateSponsor(ctx context.Context, id int64, req dto.UpdateSponsorRequest) (*dto.SponsorResponse, error) {
	sponsor, err := s.mustGetSponsor(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(sponsor)

	if err := validateSponsor(sponsor); err != nil {
		return nil, err
	}

	if err := s.sponsors.UpdateSponsor(ctx, sponsor); err != nil {
		return nil, fmt.Errorf("failed to update sponsor: %w", err)
	}

	return dto.NewSponsorResponse(sponsor), nil
}

// DeleteSponsor removes the sponsor and, through the foreign key, its
// donations.
func (s *DonationService) DeleteSponsor(ctx context.Context, id int64) error {
	if err := validID("sponsor", id); err != nil {
		return err
	}

	if err := s.sponsors.DeleteSponsor(ctx, id); err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}

	s.logger.WithField("sponsor_id", id).Info("sponsor deleted")

	return nil
}

func (s *DonationService) mustGet(ctx context.Context, id int64) (*types.Donation, error) {
	if err := validID("donation", id); err != nil {
		return nil, err
	}

	donation, err := s.donations.Donation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	if donation == nil {
		return nil, types.NotFound("donation", id)
	}

	return donation, nil
}

func (s *DonationService) mustGetSponsor(ctx context.Context, id int64) (*types.Sponsor, error) {
	if err := validID("sponsor", id); err != nil {
		return nil, err
	}

	sponsor, err := s.sponsors.Sponsor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sponsor: %w", err)
	}

	if sponsor == nil {
		return nil, types.NotFound("sponsor", id)
	}

	return sponsor, nil
}

func donationResponse(d *types.Donation, sponsor *types.Sponsor, at time.Time) *dto.DonationResponse {
	out := dto.NewDonationResponse(d)
	out.Sponsor = dto.NewSponsorResponse(sponsor)

	if d.Status != types.DonationStatusCancelled && d.Status != types.DonationStatusCompleted {
		if next, ok := d.NextDebitDate(at); ok {
			out.NextDebitDate = &next
		}
	}

	return out
}

func validateSponsor(s *types.Sponsor) error {
	if !s.SponsorType.Valid() {
		return types.Invalid("sponsorType", fmt.Sprintf("unknown sponsor type %q", s.SponsorType))
	}

	if err := firstError(
		required("name", s.Name),
		maxLength("name", s.Name, 100),
		required("phone", s.Phone),
		maxLength("phone", s.Phone, 20),
	); err != nil {
		return err
	}

	if s.SponsorType == types.SponsorTypeOrganization && (s.OrganizationName == nil || *s.OrganizationName == "") {
		return types.Invalid("organizationName", "organization name is required for organization sponsors")
	}

	if !s.PrivacyAgreed {
		return types.Invalid("privacyAgreed", "privacy agreement is required")
	}

	return nil
}
