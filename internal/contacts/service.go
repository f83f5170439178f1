package contacts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	Submit(ctx context.Context, req *SubmitContactRequest) (*Contact, error)
	Get(ctx context.Context, id string, readerID string) (*Contact, error)
	List(ctx context.Context, query *ContactListQuery) (*ContactListResponse, error)
	Update(ctx context.Context, id string, req *UpdateContactRequest) (*Contact, error)
	Respond(ctx context.Context, id, responderID string, req *RespondRequest) (*Contact, error)
	Delete(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, req *SubmitContactRequest) (*Contact, error) {
	contactType := req.Type
	if contactType == "" {
		contactType = "general"
	}

	contact := &Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		Type:     contactType,
		Status:   StatusNew,
		Priority: PriorityMedium,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Get marks the inquiry read on first admin view.
func (s *service) Get(ctx context.Context, id string, readerID string) (*Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !contact.IsRead && readerID != "" {
		if reader, err := uuid.Parse(readerID); err == nil {
			now := time.Now()
			contact.IsRead = true
			contact.ReadAt = &now
			contact.ReadBy = &reader
			if err := s.repo.Update(ctx, contact); err != nil {
				return nil, err
			}
		}
	}
	return contact, nil
}

func (s *service) List(ctx context.Context, query *ContactListQuery) (*ContactListResponse, error) {
	query.Normalize()

	contacts, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / query.Limit
	if int(total)%query.Limit != 0 {
		totalPages++
	}

	return &ContactListResponse{
		Contacts:   contacts,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) Update(ctx context.Context, id string, req *UpdateContactRequest) (*Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		contact.Status = ContactStatus(req.Status)
	}
	if req.Priority != "" {
		contact.Priority = Priority(req.Priority)
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) Respond(ctx context.Context, id, responderID string, req *RespondRequest) (*Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var entries []ResponseEntry
	if len(contact.Responses) > 0 {
		if err := json.Unmarshal(contact.Responses, &entries); err != nil {
			entries = nil
		}
	}
	entries = append(entries, ResponseEntry{
		Message:     req.Message,
		RespondedBy: responderID,
		RespondedAt: time.Now(),
	})

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	contact.Responses = raw

	// Responding moves a fresh inquiry into the in-progress state.
	if contact.Status == StatusNew {
		contact.Status = StatusInProgress
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) UnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}
