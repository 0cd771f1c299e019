package types

import (
	"fmt"
	"strings"
	"time"
)

type SponsorType string

const (
	SponsorTypeIndividual   SponsorType = "individual"
	SponsorTypeOrganization SponsorType = "organization"
)

func (t SponsorType) Valid() bool {
	return t == SponsorTypeIndividual || t == SponsorTypeOrganization
}

type Sponsor struct {
	ID               int64       `db:"id" json:"id"`
	UserID           *int64      `db:"user_id" json:"userId"`
	SponsorType      SponsorType `db:"sponsor_type" json:"sponsorType"`
	Name             string      `db:"name" json:"name"`
	OrganizationName *string     `db:"organization_name" json:"organizationName"`
	BusinessNumber   *string     `db:"business_number" json:"businessNumber"`
	BirthDate        *string     `db:"birth_date" json:"birthDate"`
	Phone            string      `db:"phone" json:"phone"`
	Email            *string     `db:"email" json:"email"`
	Address          *string     `db:"address" json:"address"`
	Church           *string     `db:"church" json:"church"`
	PrivacyAgreed    bool        `db:"privacy_agreed" json:"privacyAgreed"`
	MarketingAgreed  bool        `db:"marketing_agreed" json:"marketingAgreed"`
	ReceiptRequested bool        `db:"receipt_requested" json:"receiptRequested"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updatedAt"`
}

type SponsorFilter struct {
	SponsorType SponsorType `form:"type"`
	Search      string      `form:"q"`
}

type DonationType string

const (
	DonationTypeRegular DonationType = "regular"
	DonationTypeOneTime DonationType = "one_time"
)

func (t DonationType) Valid() bool {
	return t == DonationTypeRegular || t == DonationTypeOneTime
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCMS          PaymentMethod = "cms"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodBankTransfer || m == PaymentMethodCMS
}

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusActive    DonationStatus = "active"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
	DonationStatusFailed    DonationStatus = "failed"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusActive, DonationStatusCompleted,
		DonationStatusCancelled, DonationStatusFailed:
		return true
	}
	return false
}

// WithdrawalDays are the days of the month a CMS autopay debit may run on.
var WithdrawalDays = []int{5, 10, 15, 20, 25}

func ValidWithdrawalDay(day int) bool {
	for _, d := range WithdrawalDays {
		if d == day {
			return true
		}
	}
	return false
}

type Donation struct {
	ID            int64          `db:"id" json:"id"`
	SponsorID     int64          `db:"sponsor_id" json:"sponsorId"`
	DonationType  DonationType   `db:"donation_type" json:"donationType"`
	PaymentMethod PaymentMethod  `db:"payment_method" json:"paymentMethod"`
	Amount        int64          `db:"amount" json:"amount"`
	Purpose       *string        `db:"purpose" json:"purpose"`
	Status        DonationStatus `db:"status" json:"status"`
	BankName      *string        `db:"bank_name" json:"bankName"`
	AccountNumber *string        `db:"account_number" json:"accountNumber"`
	AccountHolder *string        `db:"account_holder" json:"accountHolder"`
	WithdrawalDay *int           `db:"withdrawal_day" json:"withdrawalDay"`
	StartDate     *time.Time     `db:"start_date" json:"startDate"`
	EndDate       *time.Time     `db:"end_date" json:"endDate"`
	PaidAt        *time.Time     `db:"paid_at" json:"paidAt"`
	Notes         *string        `db:"notes" json:"notes"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

type DonationFilter struct {
	SponsorID     *int64         `form:"sponsorId"`
	DonationType  DonationType   `form:"type"`
	PaymentMethod PaymentMethod  `form:"method"`
	Status        DonationStatus `form:"status"`
	DateRange
}

// Validate checks the payment fields that depend on each other.
func (d *Donation) Validate() error {
	if !d.DonationType.Valid() {
		return Invalid("donationType", fmt.Sprintf("unknown donation type %q", d.DonationType))
	}

	if !d.PaymentMethod.Valid() {
		return Invalid("paymentMethod", fmt.Sprintf("unknown payment method %q", d.PaymentMethod))
	}

	if d.Amount <= 0 {
		return Invalid("amount", "amount must be greater than zero")
	}

	if d.PaymentMethod != PaymentMethodCMS {
		return nil
	}

	if d.DonationType != DonationTypeRegular {
		return Invalid("paymentMethod", "cms autopay is only available for regular donations")
	}

	if isBlank(d.BankName) {
		return Invalid("bankName", "bank name is required for cms autopay")
	}

	if isBlank(d.AccountNumber) {
		return Invalid("accountNumber", "account number is required for cms autopay")
	}

	if isBlank(d.AccountHolder) {
		return Invalid("accountHolder", "account holder is required for cms autopay")
	}

	if d.WithdrawalDay == nil || !ValidWithdrawalDay(*d.WithdrawalDay) {
		return Invalid("withdrawalDay", fmt.Sprintf("withdrawal day must be one of %v", WithdrawalDays))
	}

	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return Invalid("endDate", "end date is before start date")
	}

	return nil
}

// NextDebitDate returns the first CMS debit on or after from, honoring the
// plan's start and end dates. ok is false for non-CMS donations and for plans
// that have already ended.
func (d *Donation) NextDebitDate(from time.Time) (next time.Time, ok bool) {
	if d.PaymentMethod != PaymentMethodCMS || d.WithdrawalDay == nil {
		return time.Time{}, false
	}

	if d.StartDate != nil && from.Before(*d.StartDate) {
		from = *d.StartDate
	}

	day := *d.WithdrawalDay
	y, m, _ := from.Date()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	next = debitDay(y, m, day, from.Location())
	if next.Before(start) {
		next = debitDay(y, m+1, day, from.Location())
	}

	if d.EndDate != nil && next.After(*d.EndDate) {
		return time.Time{}, false
	}

	return next, true
}

// debitDay clamps day to the last day of the month.
func debitDay(y int, m time.Month, day int, loc *time.Location) time.Time {
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
	if day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
