package dto

import (
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

// SubmitConsultationRequest is what the public form posts.
type SubmitConsultationRequest struct {
	UserID           *int64                 `json:"userId"`
	Name             string                 `json:"name"`
	NamePublic       bool                   `json:"namePublic"`
	Phone            string                 `json:"phone"`
	PhonePublic      bool                   `json:"phonePublic"`
	Email            *string                `json:"email"`
	EmailPublic      bool                   `json:"emailPublic"`
	ConsultationType types.ConsultationType `json:"consultationType"`
	InquiryCategory  types.InquiryCategory  `json:"inquiryCategory"`
	InquiryChannel   types.InquiryChannel   `json:"inquiryChannel"`
	Title            string                 `json:"title"`
	Content          string                 `json:"content"`
	PrivacyAgreed    bool                   `json:"privacyAgreed"`
}

func (r SubmitConsultationRequest) ToModel() *types.Consultation {
	c := &types.Consultation{
		UserID:           r.UserID,
		Name:             trim(r.Name),
		NamePublic:       r.NamePublic,
		Phone:            trim(r.Phone),
		PhonePublic:      r.PhonePublic,
		Email:            utils.TrimmedPtr(r.Email),
		EmailPublic:      r.EmailPublic,
		ConsultationType: r.ConsultationType,
		InquiryCategory:  r.InquiryCategory,
		InquiryChannel:   r.InquiryChannel,
		Title:            trim(r.Title),
		Content:          trim(r.Content),
		PrivacyAgreed:    r.PrivacyAgreed,
		Status:           types.ConsultationStatusPending,
	}
	if c.InquiryChannel == "" {
		c.InquiryChannel = types.InquiryChannelWebsite
	}
	if c.InquiryCategory == "" {
		c.InquiryCategory = types.InquiryCategoryOther
	}
	if c.ConsultationType == "" {
		c.ConsultationType = types.ConsultationTypeOnline
	}
	return c
}

// PatchConsultationRequest is the admin partial update. Status changes go
// through types.ValidateConsultationTransition.
type PatchConsultationRequest struct {
	Status            *types.ConsultationStatus `json:"status"`
	AssignedTo        *int64                    `json:"assignedTo"`
	ConsultationNotes *string                   `json:"consultationNotes"`
	InquiryCategory   *types.InquiryCategory    `json:"inquiryCategory"`
	ConsultationType  *types.ConsultationType   `json:"consultationType"`
}

type AddResponseRequest struct {
	ResponderID  *int64             `json:"responderId"`
	ResponseType types.ResponseType `json:"responseType"`
	Content      string             `json:"content"`
	IsPublic     bool               `json:"isPublic"`
}

func (r AddResponseRequest) ToModel(consultationID int64) *types.ConsultationResponse {
	return &types.ConsultationResponse{
		ConsultationID: consultationID,
		ResponderID:    r.ResponderID,
		ResponseType:   r.ResponseType,
		Content:        trim(r.Content),
		IsPublic:       r.IsPublic,
	}
}

type ScheduleFollowupRequest struct {
	MeetingType *types.MeetingType `json:"meetingType"`
	ScheduledAt *time.Time         `json:"scheduledAt"`
	Notes       *string            `json:"notes"`
}

type UpdateFollowupRequest struct {
	MeetingType *types.MeetingType    `json:"meetingType"`
	ScheduledAt *time.Time            `json:"scheduledAt"`
	MetAt       *time.Time            `json:"metAt"`
	Notes       *string               `json:"notes"`
	Status      *types.FollowupStatus `json:"status"`
}

func (r UpdateFollowupRequest) Apply(f *types.ConsultationFollowup) {
	if r.MeetingType != nil {
		f.MeetingType = r.MeetingType
	}
	if r.ScheduledAt != nil {
		f.ScheduledAt = r.ScheduledAt
	}
	if r.MetAt != nil {
		f.MetAt = r.MetAt
	}
	if r.Notes != nil {
		f.Notes = utils.TrimmedPtr(r.Notes)
	}
	if r.Status != nil {
		f.Status = *r.Status
	}
}

type ConsultationResponse struct {
	ID                int64                    `json:"id"`
	UserID            *int64                   `json:"userId,omitempty"`
	Name              string                   `json:"name"`
	NamePublic        bool                     `json:"namePublic"`
	Phone             *string                  `json:"phone"`
	PhonePublic       bool                     `json:"phonePublic"`
	Email             *string                  `json:"email"`
	EmailPublic       bool                     `json:"emailPublic"`
	ConsultationType  types.ConsultationType   `json:"consultationType"`
	InquiryCategory   types.InquiryCategory    `json:"inquiryCategory"`
	InquiryChannel    types.InquiryChannel     `json:"inquiryChannel"`
	Title             string                   `json:"title"`
	Content           string                   `json:"content"`
	PrivacyAgreed     bool                     `json:"privacyAgreed"`
	Status            types.ConsultationStatus `json:"status"`
	AssignedTo        *int64                   `json:"assignedTo,omitempty"`
	ConsultationNotes *string                  `json:"consultationNotes,omitempty"`
	CompletedAt       *time.Time               `json:"completedAt"`
	CreatedAt         time.Time                `json:"createdAt"`
	UpdatedAt         time.Time                `json:"updatedAt"`

	// AccessToken is only returned to the submitter.
	AccessToken string `json:"accessToken,omitempty"`

	Responses []*ResponseEntry `json:"responses,omitempty"`
	Followups []*FollowupEntry `json:"followups,omitempty"`
}

// NewConsultationResponse maps the full admin view.
func NewConsultationResponse(c *types.Consultation) *ConsultationResponse {
	if c == nil {
		return nil
	}

	phone := c.Phone
	return &ConsultationResponse{
		ID:                c.ID,
		UserID:            c.UserID,
		Name:              c.Name,
		NamePublic:        c.NamePublic,
		Phone:             &phone,
		PhonePublic:       c.PhonePublic,
		Email:             c.Email,
		EmailPublic:       c.EmailPublic,
		ConsultationType:  c.ConsultationType,
		InquiryCategory:   c.InquiryCategory,
		InquiryChannel:    c.InquiryChannel,
		Title:             c.Title,
		Content:           c.Content,
		PrivacyAgreed:     c.PrivacyAgreed,
		Status:            c.Status,
		AssignedTo:        c.AssignedTo,
		ConsultationNotes: c.ConsultationNotes,
		CompletedAt:       c.CompletedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// NewPublicConsultationResponse hides every contact field the requester did
// not mark public, along with internal notes and assignment.
func NewPublicConsultationResponse(c *types.Consultation) *ConsultationResponse {
	out := NewConsultationResponse(c)
	if out == nil {
		return nil
	}

	out.UserID = nil
	out.AssignedTo = nil
	out.ConsultationNotes = nil

	if !c.NamePublic {
		out.Name = MaskName(c.Name)
	}
	if !c.PhonePublic {
		out.Phone = maskedPtr(&c.Phone, MaskPhone)
	}
	if !c.EmailPublic {
		out.Email = nil
	}

	return out
}

type ResponseEntry struct {
	ID             int64              `json:"id"`
	ConsultationID int64              `json:"consultationId"`
	ResponderID    *int64             `json:"responderId,omitempty"`
	ResponseType   types.ResponseType `json:"responseType"`
	Content        string             `json:"content"`
	IsPublic       bool               `json:"isPublic"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func NewResponseEntry(r *types.ConsultationResponse) *ResponseEntry {
	return &ResponseEntry{
		ID:             r.ID,
		ConsultationID: r.ConsultationID,
		ResponderID:    r.ResponderID,
		ResponseType:   r.ResponseType,
		Content:        r.Content,
		IsPublic:       r.IsPublic,
		CreatedAt:      r.CreatedAt,
	}
}

type FollowupEntry struct {
	ID                     int64                `json:"id"`
	OriginalConsultationID int64                `json:"originalConsultationId"`
	FollowupOrder          int                  `json:"followupOrder"`
	MeetingType            *types.MeetingType   `json:"meetingType"`
	ScheduledAt            *time.Time           `json:"scheduledAt"`
	MetAt                  *time.Time           `json:"metAt"`
	Notes                  *string              `json:"notes"`
	Status                 types.FollowupStatus `json:"status"`
	CreatedAt              time.Time            `json:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt"`
}

func NewFollowupEntry(f *types.ConsultationFollowup) *FollowupEntry {
	return &FollowupEntry{
		ID:                     f.ID,
		OriginalConsultationID: f.OriginalConsultationID,
		FollowupOrder:          f.FollowupOrder,
		MeetingType:            f.MeetingType,
		ScheduledAt:            f.ScheduledAt,
		MetAt:                  f.MetAt,
		Notes:                  f.Notes,
		Status:                 f.Status,
		CreatedAt:              f.CreatedAt,
		UpdatedAt:              f.UpdatedAt,
	}
}
