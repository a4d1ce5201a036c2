package models

import "time"

// Support inquiry states: open -> replied -> closed. Closed is terminal.
const (
	InquiryStatusOpen    = "open"
	InquiryStatusReplied = "replied"
	InquiryStatusClosed  = "closed"
)

// Tech ticket states: draft (pre-submission, attachments pending) ->
// in_progress -> problem_solved.
const (
	TicketStatusDraft         = "draft"
	TicketStatusInProgress    = "in_progress"
	TicketStatusProblemSolved = "problem_solved"
)

// Inquiry is a client support inquiry with a threaded reply history.
type Inquiry struct {
	ID          uint           `gorm:"primaryKey"`
	Subject     string         `gorm:"not null"`
	Body        string         `gorm:"not null"`
	ClientEmail string         `gorm:"not null;index"`
	Status      string         `gorm:"not null;default:'open';index"`
	Replies     []InquiryReply `gorm:"foreignKey:InquiryID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InquiryReply struct {
	ID        uint   `gorm:"primaryKey"`
	InquiryID uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	Admin     bool   `gorm:"not null"`
	Body      string `gorm:"not null"`
	CreatedAt time.Time
}

// TechTicket is an internal tech-support ticket. Created as draft while
// attachments upload, then submitted to in_progress.
type TechTicket struct {
	ID          uint         `gorm:"primaryKey"`
	Ref         string       `gorm:"not null;uniqueIndex"` // external reference shown to users
	Subject     string       `gorm:"not null"`
	Description string
	ReporterID  uint         `gorm:"not null;index"`
	Status      string       `gorm:"not null;default:'draft';index"`
	Attachments []Attachment `gorm:"foreignKey:TicketID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attachment is a stored file linked to a tech ticket. The row exists only
// once the object is durably written; there is no pending state to poll for.
type Attachment struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	Key       string `gorm:"not null;uniqueIndex"` // storage object key
	Name      string `gorm:"not null"`
	Size      int64
	MimeType  string
	CreatedAt time.Time
}
