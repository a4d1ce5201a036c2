package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/mail"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/validation"
)

// Lifecycle errors. Closed inquiries and solved tickets reject further
// writes here, not in the client, so stale UIs cannot reopen them.
var (
	ErrInquiryClosed     = errors.New("inquiry is closed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// SupportService manages client inquiries and internal tech tickets.
type SupportService struct {
	db     *gorm.DB
	mailer mail.Dispatcher
	notify []string // admin addresses mailed on new tickets
	log    *zap.Logger
}

func NewSupportService(db *gorm.DB, mailer mail.Dispatcher, notify []string, log *zap.Logger) *SupportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SupportService{db: db, mailer: mailer, notify: notify, log: log}
}

// InquiryInput is the public create payload.
type InquiryInput struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ClientEmail string `json:"client_email"`
}

func (s *SupportService) CreateInquiry(ctx context.Context, in InquiryInput) (*models.Inquiry, error) {
	v := validation.Violations{}
	validation.Required("subject", in.Subject, v)
	validation.Required("body", in.Body, v)
	validation.Required("client_email", in.ClientEmail, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	inq := models.Inquiry{
		Subject:     in.Subject,
		Body:        in.Body,
		ClientEmail: in.ClientEmail,
		Status:      models.InquiryStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(&inq).Error; err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	return &inq, nil
}

func (s *SupportService) GetInquiry(ctx context.Context, id uint) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := s.db.WithContext(ctx).Preload("Replies").First(&inq, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	return &inq, nil
}

func (s *SupportService) ListInquiries(ctx context.Context, status string) ([]models.Inquiry, error) {
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Inquiry
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return out, nil
}

// Reply appends to the thread. An admin reply moves an open inquiry to
// replied. Replies to a closed inquiry are rejected regardless of who
// sends them.
func (s *SupportService) Reply(ctx context.Context, inquiryID, userID uint, admin bool, body string) (*models.InquiryReply, error) {
	v := validation.Violations{}
	validation.Required("body", body, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	var reply models.InquiryReply
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inq models.Inquiry
		if err := tx.First(&inq, inquiryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if inq.Status == models.InquiryStatusClosed {
			return ErrInquiryClosed
		}
		reply = models.InquiryReply{InquiryID: inq.ID, UserID: userID, Admin: admin, Body: body}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		if admin && inq.Status == models.InquiryStatusOpen {
			if err := tx.Model(&inq).Update("status", models.InquiryStatusReplied).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInquiryClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("reply: %w", err)
	}
	return &reply, nil
}

// CloseInquiry is terminal. Closing an already closed inquiry is a no-op.
func (s *SupportService) CloseInquiry(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Inquiry{}).
		Where("id = ?", id).
		Update("status", models.InquiryStatusClosed)
	if res.Error != nil {
		return fmt.Errorf("close inquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TicketInput is the tech ticket create payload.
type TicketInput struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// CreateTicket opens a draft ticket so attachments can be added before
// submission. The admin notification is best effort: a mail failure is
// logged and the ticket is created anyway.
func (s *SupportService) CreateTicket(ctx context.Context, reporterID uint, in TicketInput) (*models.TechTicket, error) {
	v := validation.Violations{}
	validation.Required("subject", in.Subject, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	ticket := models.TechTicket{
		Ref:         uuid.NewString(),
		Subject:     in.Subject,
		Description: in.Description,
		ReporterID:  reporterID,
		Status:      models.TicketStatusDraft,
	}
	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	if s.mailer != nil && len(s.notify) > 0 {
		msg := mail.Message{
			Subject: "New tech ticket: " + ticket.Subject,
			HTML:    "<p>Ticket " + ticket.Ref + " was opened.</p>",
		}
		report := mail.SendAll(ctx, s.mailer, msg, s.notify)
		if report.Failed > 0 {
			s.log.Warn("ticket notification partly failed",
				zap.String("ref", ticket.Ref),
				zap.Int("failed", report.Failed))
		}
	}
	return &ticket, nil
}

func (s *SupportService) GetTicket(ctx context.Context, id uint) (*models.TechTicket, error) {
	var t models.TechTicket
	err := s.db.WithContext(ctx).Preload("Attachments").First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &t, nil
}

func (s *SupportService) ListTickets(ctx context.Context, reporterID uint) ([]models.TechTicket, error) {
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if reporterID != 0 {
		q = q.Where("reporter_id = ?", reporterID)
	}
	var out []models.TechTicket
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}

// SubmitTicket moves a draft to in_progress. Any other starting state is
// rejected.
func (s *SupportService) SubmitTicket(ctx context.Context, id uint) (*models.TechTicket, error) {
	return s.transitionTicket(ctx, id, models.TicketStatusDraft, models.TicketStatusInProgress)
}

// ResolveTicket moves an in_progress ticket to problem_solved.
func (s *SupportService) ResolveTicket(ctx context.Context, id uint) (*models.TechTicket, error) {
	return s.transitionTicket(ctx, id, models.TicketStatusInProgress, models.TicketStatusProblemSolved)
}

func (s *SupportService) transitionTicket(ctx context.Context, id uint, from, to string) (*models.TechTicket, error) {
	var t models.TechTicket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if t.Status != from {
			return ErrInvalidTransition
		}
		t.Status = to
		return tx.Save(&t).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("transition ticket: %w", err)
	}
	return &t, nil
}
