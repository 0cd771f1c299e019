package dto

import (
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

type SponsorRequest struct {
	UserID           *int64            `json:"userId"`
	SponsorType      types.SponsorType `json:"sponsorType"`
	Name             string            `json:"name"`
	OrganizationName *string           `json:"organizationName"`
	BusinessNumber   *string           `json:"businessNumber"`
	BirthDate        *string           `json:"birthDate"`
	Phone            string            `json:"phone"`
	Email            *string           `json:"email"`
	Address          *string           `json:"address"`
	Church           *string           `json:"church"`
	PrivacyAgreed    bool              `json:"privacyAgreed"`
	MarketingAgreed  bool              `json:"marketingAgreed"`
	ReceiptRequested bool              `json:"receiptRequested"`
}

func (r SponsorRequest) ToModel() *types.Sponsor {
	s := &types.Sponsor{
		UserID:           r.UserID,
		SponsorType:      r.SponsorType,
		Name:             trim(r.Name),
		OrganizationName: utils.TrimmedPtr(r.OrganizationName),
		BusinessNumber:   utils.TrimmedPtr(r.BusinessNumber),
		BirthDate:        utils.TrimmedPtr(r.BirthDate),
		Phone:            trim(r.Phone),
		Email:            utils.TrimmedPtr(r.Email),
		Address:          utils.TrimmedPtr(r.Address),
		Church:           utils.TrimmedPtr(r.Church),
		PrivacyAgreed:    r.PrivacyAgreed,
		MarketingAgreed:  r.MarketingAgreed,
		ReceiptRequested: r.ReceiptRequested,
	}
	if s.SponsorType == "" {
		s.SponsorType = types.SponsorTypeIndividual
	}
	return s
}

type DonationRequest struct {
	DonationType  types.DonationType  `json:"donationType"`
	PaymentMethod types.PaymentMethod `json:"paymentMethod"`
	Amount        int64               `json:"amount"`
	Purpose       *string             `json:"purpose"`
	BankName      *string             `json:"bankName"`
	AccountNumber *string             `json:"accountNumber"`
	AccountHolder *string             `json:"accountHolder"`
	WithdrawalDay *int                `json:"withdrawalDay"`
	StartDate     *time.Time          `json:"startDate"`
	EndDate       *time.Time          `json:"endDate"`
	Notes         *string             `json:"notes"`
}

func (r DonationRequest) ToModel() *types.Donation {
	return &types.Donation{
		DonationType:  r.DonationType,
		PaymentMethod: r.PaymentMethod,
		Amount:        r.Amount,
		Purpose:       utils.TrimmedPtr(r.Purpose),
		Status:        types.DonationStatusPending,
		BankName:      utils.TrimmedPtr(r.BankName),
		AccountNumber: utils.TrimmedPtr(r.AccountNumber),
		AccountHolder: utils.TrimmedPtr(r.AccountHolder),
		WithdrawalDay: r.WithdrawalDay,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Notes:         utils.TrimmedPtr(r.Notes),
	}
}

// ApplyDonationRequest is the public donation form: the sponsor and the
// donation are stored together.
type ApplyDonationRequest struct {
	Sponsor  SponsorRequest  `json:"sponsor"`
	Donation DonationRequest `json:"donation"`
}

type UpdateSponsorRequest struct {
	SponsorType      *types.SponsorType `json:"sponsorType"`
	Name             *string            `json:"name"`
	OrganizationName *string            `json:"organizationName"`
	BusinessNumber   *string            `json:"businessNumber"`
	BirthDate        *string            `json:"birthDate"`
	Phone            *string            `json:"phone"`
	Email            *string            `json:"email"`
	Address          *string            `json:"address"`
	Church           *string            `json:"church"`
	MarketingAgreed  *bool              `json:"marketingAgreed"`
	ReceiptRequested *bool              `json:"receiptRequested"`
}

func (r UpdateSponsorRequest) Apply(s *types.Sponsor) {
	if r.SponsorType != nil {
		s.SponsorType = *r.SponsorType
	}
	if r.Name != nil {
		s.Name = trim(*r.Name)
	}
	if r.OrganizationName != nil {
		s.OrganizationName = utils.TrimmedPtr(r.OrganizationName)
	}
	if r.BusinessNumber != nil {
		s.BusinessNumber = utils.TrimmedPtr(r.BusinessNumber)
	}
	if r.BirthDate != nil {
		s.BirthDate = utils.TrimmedPtr(r.BirthDate)
	}
	if r.Phone != nil {
		s.Phone = trim(*r.Phone)
	}
	if r.Email != nil {
		s.Email = utils.TrimmedPtr(r.Email)
	}
	if r.Address != nil {
		s.Address = utils.TrimmedPtr(r.Address)
	}
	if r.Church != nil {
		s.Church = utils.TrimmedPtr(r.Church)
	}
	if r.MarketingAgreed != nil {
		s.MarketingAgreed = *r.MarketingAgreed
	}
	if r.ReceiptRequested != nil {
		s.ReceiptRequested = *r.ReceiptRequested
	}
}

type UpdateDonationStatusRequest struct {
	Status types.DonationStatus `json:"status"`
	PaidAt *time.Time           `json:"paidAt"`
	Notes  *string              `json:"notes"`
}

type SponsorResponse struct {
	ID               int64             `json:"id"`
	UserID           *int64            `json:"userId"`
	SponsorType      types.SponsorType `json:"sponsorType"`
	Name             string            `json:"name"`
	OrganizationName *string           `json:"organizationName"`
	BusinessNumber   *string           `json:"businessNumber"`
	BirthDate        *string           `json:"birthDate"`
	Phone            string            `json:"phone"`
	Email            *string           `json:"email"`
	Address          *string           `json:"address"`
	Church           *string           `json:"church"`
	PrivacyAgreed    bool              `json:"privacyAgreed"`
	MarketingAgreed  bool              `json:"marketingAgreed"`
	ReceiptRequested bool              `json:"receiptRequested"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`

	Donations []*DonationResponse `json:"donations,omitempty"`
}

func NewSponsorResponse(s *types.Sponsor) *SponsorResponse {
	if s == nil {
		return nil
	}
	return &SponsorResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		SponsorType:      s.SponsorType,
		Name:             s.Name,
		OrganizationName: s.OrganizationName,
		BusinessNumber:   s.BusinessNumber,
		BirthDate:        s.BirthDate,
		Phone:            s.Phone,
		Email:            s.Email,
		Address:          s.Address,
		Church:           s.Church,
		PrivacyAgreed:    s.PrivacyAgreed,
		MarketingAgreed:  s.MarketingAgreed,
		ReceiptRequested: s.ReceiptRequested,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// DonationResponse never carries a full account number.
type DonationResponse struct {
	ID            int64                `json:"id"`
	SponsorID     int64                `json:"sponsorId"`
	DonationType  types.DonationType   `json:"donationType"`
	PaymentMethod types.PaymentMethod  `json:"paymentMethod"`
	Amount        int64                `json:"amount"`
	Purpose       *string              `json:"purpose"`
	Status        types.DonationStatus `json:"status"`
	BankName      *string              `json:"bankName"`
	AccountNumber *string              `json:"accountNumber"`
	AccountHolder *string              `json:"accountHolder"`
	WithdrawalDay *int                 `json:"withdrawalDay"`
	StartDate     *time.Time           `json:"startDate"`
	EndDate       *time.Time           `json:"endDate"`
	PaidAt        *time.Time           `json:"paidAt"`
	Notes         *string              `json:"notes"`
	NextDebitDate *time.Time           `json:"nextDebitDate,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`

	Sponsor *SponsorResponse `json:"sponsor,omitempty"`
}

func NewDonationResponse(d *types.Donation) *DonationResponse {
	if d == nil {
		return nil
	}
	return &DonationResponse{
		ID:            d.ID,
		SponsorID:     d.SponsorID,
		DonationType:  d.DonationType,
		PaymentMethod: d.PaymentMethod,
		Amount:        d.Amount,
		Purpose:       d.Purpose,
		Status:        d.Status,
		BankName:      d.BankName,
		AccountNumber: maskedPtr(d.AccountNumber, func(s string) string { return MaskTail(s, 4) }),
		AccountHolder: d.AccountHolder,
		WithdrawalDay: d.WithdrawalDay,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		PaidAt:        d.PaidAt,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
