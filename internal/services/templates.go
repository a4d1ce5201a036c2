package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/validation"
)

// Sentinel errors shared across services.
var (
	ErrNotFound = errors.New("record not found")
)

// ValidationError carries field-level violations back to the handler layer.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// TemplateService manages the reusable message templates and the
// default-per-type flag.
type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService { return &TemplateService{db: db} }

// TemplateInput is the create/update payload.
type TemplateInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (in TemplateInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("subject", in.Subject, v)
	validation.Required("body", in.Body, v)
	validation.OneOf("type", in.Type, models.TemplateTypes, v)
	return v
}

// List returns all templates, optionally filtered by type, defaults first.
func (s *TemplateService) List(ctx context.Context, templateType string) ([]models.Template, error) {
	q := s.db.WithContext(ctx).Order("is_default desc, name asc")
	if templateType != "" {
		q = q.Where("type = ?", templateType)
	}
	var out []models.Template
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

func (s *TemplateService) Get(ctx context.Context, id uint) (*models.Template, error) {
	var t models.Template
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

// DefaultForType returns the default template of the given type, or
// ErrNotFound when none is flagged.
func (s *TemplateService) DefaultForType(ctx context.Context, templateType string) (*models.Template, error) {
	var t models.Template
	err := s.db.WithContext(ctx).
		Where("type = ? AND is_default = ?", templateType, true).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("default template: %w", err)
	}
	return &t, nil
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.Template, error) {
	if v := in.validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	t := models.Template{
		Name:    strings.TrimSpace(in.Name),
		Type:    in.Type,
		Subject: in.Subject,
		Body:    in.Body,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return &t, nil
}

func (s *TemplateService) Update(ctx context.Context, id uint, in TemplateInput) (*models.Template, error) {
	if v := in.validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Type = in.Type
	t.Subject = in.Subject
	t.Body = in.Body
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// Duplicate copies a template under a "(Copy)" name. The copy is never
// the default, regardless of the source flag.
func (s *TemplateService) Duplicate(ctx context.Context, id uint) (*models.Template, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := models.Template{
		Name:      src.Name + " (Copy)",
		Type:      src.Type,
		Subject:   src.Subject,
		Body:      src.Body,
		IsDefault: false,
	}
	if err := s.db.WithContext(ctx).Create(&dup).Error; err != nil {
		return nil, fmt.Errorf("duplicate template: %w", err)
	}
	return &dup, nil
}

// SetDefault flags the template as the default of its type. The unset of
// the previous default and the set of the new one happen in one
// transaction so no window exists with zero or two defaults.
func (s *TemplateService) SetDefault(ctx context.Context, id uint) (*models.Template, error) {
	var t models.Template
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.Template{}).
			Where("type = ? AND id <> ?", t.Type, t.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		t.IsDefault = true
		return tx.Save(&t).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set default template: %w", err)
	}
	return &t, nil
}

// Delete removes the template permanently. Deleting the current default
// leaves its type with no default until one is flagged again.
func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Template{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
