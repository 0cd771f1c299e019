package types

import (
	"fmt"
	"time"
)

type ConsultationStatus string

const (
	ConsultationStatusPending    ConsultationStatus = "pending"
	ConsultationStatusAssigned   ConsultationStatus = "assigned"
	ConsultationStatusInProgress ConsultationStatus = "in_progress"
	ConsultationStatusCompleted  ConsultationStatus = "completed"
	ConsultationStatusCancelled  ConsultationStatus = "cancelled"
)

func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationStatusPending, ConsultationStatusAssigned, ConsultationStatusInProgress,
		ConsultationStatusCompleted, ConsultationStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further status changes, responses or follow-ups.
func (s ConsultationStatus) Terminal() bool {
	return s == ConsultationStatusCompleted || s == ConsultationStatusCancelled
}

// ValidateConsultationTransition is the only place consultation status
// changes are decided. Open statuses may move anywhere; terminal statuses
// only accept a no-op.
func ValidateConsultationTransition(from, to ConsultationStatus) error {
	if !to.Valid() {
		return Invalid("status", fmt.Sprintf("unknown consultation status %q", to))
	}

	if from == to {
		return nil
	}

	if from.Terminal() {
		return Invalid("status", fmt.Sprintf("consultation is %s and can no longer change status", from))
	}

	return nil
}

type ConsultationType string

const (
	ConsultationTypePhone  ConsultationType = "phone"
	ConsultationTypeVisit  ConsultationType = "visit"
	ConsultationTypeOnline ConsultationType = "online"
	ConsultationTypeEmail  ConsultationType = "email"
)

func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationTypePhone, ConsultationTypeVisit, ConsultationTypeOnline, ConsultationTypeEmail:
		return true
	}
	return false
}

type InquiryCategory string

const (
	InquiryCategoryFamily     InquiryCategory = "family"
	InquiryCategoryFaith      InquiryCategory = "faith"
	InquiryCategoryCounseling InquiryCategory = "counseling"
	InquiryCategoryDonation   InquiryCategory = "donation"
	InquiryCategoryVolunteer  InquiryCategory = "volunteer"
	InquiryCategoryOther      InquiryCategory = "other"
)

func (c InquiryCategory) Valid() bool {
	switch c {
	case InquiryCategoryFamily, InquiryCategoryFaith, InquiryCategoryCounseling,
		InquiryCategoryDonation, InquiryCategoryVolunteer, InquiryCategoryOther:
		return true
	}
	return false
}

type InquiryChannel string

const (
	InquiryChannelWebsite  InquiryChannel = "website"
	InquiryChannelPhone    InquiryChannel = "phone"
	InquiryChannelKakao    InquiryChannel = "kakao"
	InquiryChannelReferral InquiryChannel = "referral"
	InquiryChannelOther    InquiryChannel = "other"
)

func (c InquiryChannel) Valid() bool {
	switch c {
	case InquiryChannelWebsite, InquiryChannelPhone, InquiryChannelKakao,
		InquiryChannelReferral, InquiryChannelOther:
		return true
	}
	return false
}

type Consultation struct {
	ID                int64              `db:"id" json:"id"`
	UserID            *int64             `db:"user_id" json:"userId"`
	Name              string             `db:"name" json:"name"`
	NamePublic        bool               `db:"name_public" json:"namePublic"`
	Phone             string             `db:"phone" json:"phone"`
	PhonePublic       bool               `db:"phone_public" json:"phonePublic"`
	Email             *string            `db:"email" json:"email"`
	EmailPublic       bool               `db:"email_public" json:"emailPublic"`
	ConsultationType  ConsultationType   `db:"consultation_type" json:"consultationType"`
	InquiryCategory   InquiryCategory    `db:"inquiry_category" json:"inquiryCategory"`
	InquiryChannel    InquiryChannel     `db:"inquiry_channel" json:"inquiryChannel"`
	Title             string             `db:"title" json:"title"`
	Content           string             `db:"content" json:"content"`
	PrivacyAgreed     bool               `db:"privacy_agreed" json:"privacyAgreed"`
	AccessToken       string             `db:"access_token" json:"-"`
	Status            ConsultationStatus `db:"status" json:"status"`
	AssignedTo        *int64             `db:"assigned_to" json:"assignedTo"`
	ConsultationNotes *string            `db:"consultation_notes" json:"consultationNotes"`
	CompletedAt       *time.Time         `db:"completed_at" json:"completedAt"`
	CreatedAt         time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updatedAt"`
}

type ConsultationFilter struct {
	Status           ConsultationStatus `form:"status"`
	ConsultationType ConsultationType   `form:"type"`
	InquiryCategory  InquiryCategory    `form:"category"`
	AssignedTo       *int64             `form:"assignedTo"`
	UserID           *int64             `form:"userId"`
	Search           string             `form:"q"`
	DateRange
}

type ResponseType string

const (
	ResponseTypeAnswer           ResponseType = "answer"
	ResponseTypeEscalate         ResponseType = "escalate"
	ResponseTypeReopen           ResponseType = "reopen"
	ResponseTypeFollowupQuestion ResponseType = "followup_question"
)

func (t ResponseType) Valid() bool {
	switch t {
	case ResponseTypeAnswer, ResponseTypeEscalate, ResponseTypeReopen, ResponseTypeFollowupQuestion:
		return true
	}
	return false
}

type ConsultationResponse struct {
	ID             int64        `db:"id" json:"id"`
	ConsultationID int64        `db:"consultation_id" json:"consultationId"`
	ResponderID    *int64       `db:"responder_id" json:"responderId"`
	ResponseType   ResponseType `db:"response_type" json:"responseType"`
	Content        string       `db:"content" json:"content"`
	IsPublic       bool         `db:"is_public" json:"isPublic"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}

type FollowupStatus string

const (
	FollowupStatusScheduled FollowupStatus = "scheduled"
	FollowupStatusCompleted FollowupStatus = "completed"
	FollowupStatusCancelled FollowupStatus = "cancelled"
)

func (s FollowupStatus) Valid() bool {
	return s == FollowupStatusScheduled || s == FollowupStatusCompleted || s == FollowupStatusCancelled
}

type MeetingType string

const (
	MeetingTypePhone MeetingType = "phone"
	MeetingTypeVisit MeetingType = "visit"
	MeetingTypeVideo MeetingType = "video"
	MeetingTypeEmail MeetingType = "email"
)

func (t MeetingType) Valid() bool {
	switch t {
	case MeetingTypePhone, MeetingTypeVisit, MeetingTypeVideo, MeetingTypeEmail:
		return true
	}
	return false
}

type ConsultationFollowup struct {
	ID                     int64          `db:"id" json:"id"`
	OriginalConsultationID int64          `db:"original_consultation_id" json:"originalConsultationId"`
	FollowupOrder          int            `db:"followup_order" json:"followupOrder"`
	MeetingType            *MeetingType   `db:"meeting_type" json:"meetingType"`
	ScheduledAt            *time.Time     `db:"scheduled_at" json:"scheduledAt"`
	MetAt                  *time.Time     `db:"met_at" json:"metAt"`
	Notes                  *string        `db:"notes" json:"notes"`
	Status                 FollowupStatus `db:"status" json:"status"`
	CreatedAt              time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time      `db:"updated_at" json:"updatedAt"`
}
