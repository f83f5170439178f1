package contacts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContactStatus tracks an inquiry through the support workflow
type ContactStatus string

const (
	StatusNew        ContactStatus = "new"
	StatusInProgress ContactStatus = "in_progress"
	StatusResolved   ContactStatus = "resolved"
	StatusClosed     ContactStatus = "closed"
)

func (s ContactStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority levels for triage
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Contact represents a customer inquiry
type Contact struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name    string    `json:"name" gorm:"not null;size:200"`
	Email   string    `json:"email" gorm:"not null;size:200;index"`
	Phone   string    `json:"phone,omitempty" gorm:"size:20"`
	Subject string    `json:"subject" gorm:"not null;size:300"`
	Message string    `json:"message" gorm:"type:text;not null"`
	Type    string    `json:"type" gorm:"size:50;default:'general'"` // general, booking, complaint, feedback

	Status   ContactStatus `json:"status" gorm:"not null;default:'new';index"`
	Priority Priority      `json:"priority" gorm:"not null;default:'medium';index"`

	// Admin replies, stored as a JSON array of response entries.
	Responses datatypes.JSON `json:"responses,omitempty" gorm:"type:jsonb"`

	IsRead bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt *time.Time `json:"read_at,omitempty"`
	ReadBy *uuid.UUID `json:"read_by,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ResponseEntry is one admin reply inside the Responses JSON array
type ResponseEntry struct {
	Message     string    `json:"message"`
	RespondedBy string    `json:"responded_by"`
	RespondedAt time.Time `json:"responded_at"`
}

// SubmitContactRequest is the public inquiry payload
type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,min=9,max=20"`
	Subject string `json:"subject" validate:"required,min=3,max=300"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
	Type    string `json:"type,omitempty" validate:"omitempty,oneof=general booking complaint feedback"`
}

// UpdateContactRequest is the admin workflow payload
type UpdateContactRequest struct {
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=new in_progress resolved closed"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

// RespondRequest appends an admin reply to an inquiry
type RespondRequest struct {
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// ContactListQuery represents admin listing filters
type ContactListQuery struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Type     string `form:"type"`
	Unread   *bool  `form:"unread"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// Normalize applies defaults and bounds to the query
func (q *ContactListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// ContactListResponse represents a paginated contact listing
type ContactListResponse struct {
	Contacts   []Contact `json:"contacts"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
