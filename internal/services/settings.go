package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/i18n"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/validation"
)

// SettingsService persists per-user render settings as one JSON blob and
// merges stored values over the defaults on load, so settings added after
// a blob was written still come back with sane values.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{db: db} }

// Load returns the user's settings merged over the defaults. A user with
// no stored row gets the plain defaults.
func (s *SettingsService) Load(ctx context.Context, userID uint) (models.RenderSettings, error) {
	out := models.DefaultRenderSettings()
	var row models.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, nil
		}
		return out, fmt.Errorf("load settings: %w", err)
	}
	// Unmarshal over the defaults: keys absent from the blob keep them.
	if err := json.Unmarshal([]byte(row.Data), &out); err != nil {
		return models.DefaultRenderSettings(), fmt.Errorf("decode settings blob: %w", err)
	}
	return out, nil
}

// Save validates and stores the settings, creating or replacing the
// user's row.
func (s *SettingsService) Save(ctx context.Context, userID uint, in models.RenderSettings) error {
	in.Currency = strings.ToUpper(in.Currency)
	v := validation.Violations{}
	validation.Required("language", in.Language, v)
	validation.Required("currency", in.Currency, v)
	if in.Language != "" {
		validation.OneOf("language", in.Language, i18n.Languages(), v)
	}
	if in.Currency != "" {
		validation.OneOf("currency", in.Currency, i18n.Currencies(), v)
	}
	validation.RateFloat("vatRate", in.VATRate, v)
	if in.LogoSize < 10 || in.LogoSize > 300 {
		v["logoSize"] = "out_of_range"
	}
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	row := models.UserSettings{UserID: userID, Data: string(data)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.UserSettings
		ferr := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			return tx.Create(&row).Error
		}
		if ferr != nil {
			return ferr
		}
		return tx.Model(&existing).Update("data", row.Data).Error
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
