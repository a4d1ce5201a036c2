package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"compass-order-hub"`
		Env  string `envconfig:"APP_ENV" default:"development"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		// DSN accepts a postgres URL, lib/pq key=value form, or a sqlite path.
		DSN string `envconfig:"DATABASE_DSN" default:"file:orderhub.db?cache=shared"`
	}

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Mail struct {
		// FunctionURL is the send-email serverless endpoint; empty disables dispatch.
		FunctionURL string        `envconfig:"MAIL_FUNCTION_URL"`
		APIKey      string        `envconfig:"MAIL_API_KEY"`
		From        string        `envconfig:"MAIL_FROM" default:"noreply@orderhub.local"`
		Timeout     time.Duration `envconfig:"MAIL_TIMEOUT" default:"15s"`
	}

	Sheets struct {
		// Service-account credentials for the spreadsheet sync; empty disables it.
		ServiceAccountEmail string `envconfig:"SHEETS_SA_EMAIL"`
		PrivateKeyPEM       string `envconfig:"SHEETS_SA_PRIVATE_KEY"`
		SpreadsheetID       string `envconfig:"SHEETS_SPREADSHEET_ID"`
		SheetName           string `envconfig:"SHEETS_SHEET_NAME" default:"Orders"`
	}

	Privacy struct {
		// GDPR export/delete forwarder endpoints; empty disables forwarding.
		ExportURL string `envconfig:"PRIVACY_EXPORT_URL"`
		DeleteURL string `envconfig:"PRIVACY_DELETE_URL"`
	}

	Storage struct {
		AttachmentDir string `envconfig:"ATTACHMENT_DIR" default:"data/attachments"`
	}
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.App.Port) }

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
