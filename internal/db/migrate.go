package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
)

// ConnectAndMigrate opens the database (postgres DSN or sqlite path),
// migrates the schema, and seeds static reference data. Postgres DSNs may
// also run SQL migrations from ./migrations when MIGRATIONS=1; otherwise
// AutoMigrate is used as a dev convenience.
func ConnectAndMigrate(dsn string, log *zap.Logger) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, errors.New("database DSN is empty, check environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	isPostgres := strings.HasPrefix(strings.ToLower(dsn), "postgres")
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		if isPostgres {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			db, err = gorm.Open(sqlite.Open(dsn), cfg)
		}
		if err == nil {
			break
		}
		log.Warn("retrying DB connection", zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info("database connected", zap.String("dsn", MaskDSN(dsn)))

	if isPostgres && migrationsRequested() {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.User{}, &models.Client{}, &models.CompanyProfile{},
			&models.Order{}, &models.OrderItem{},
			&models.Template{}, &models.UserSettings{}, &models.PaymentAccount{},
			&models.Inquiry{}, &models.InquiryReply{},
			&models.TechTicket{}, &models.Attachment{},
		}
		for _, m := range modelsToMigrate {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	// sanity check: required core tables must exist
	for _, table := range []string{"users", "templates", "orders", "payment_accounts"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if err := Seed(db); err != nil {
		return nil, fmt.Errorf("seed reference data: %w", err)
	}
	return db, nil
}

func migrationsRequested() bool {
	v := strings.ToLower(os.Getenv("MIGRATIONS"))
	return v == "1" || v == "true" || v == "yes"
}

// Seed inserts static reference data (payment accounts) and one default
// template per type if none exists. Idempotent.
func Seed(db *gorm.DB) error {
	for _, acct := range models.DefaultPaymentAccounts {
		var existing models.PaymentAccount
		if err := db.Where("id = ?", acct.ID).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&acct).Error; err != nil {
				return err
			}
		}
	}
	for _, tpl := range seedTemplates {
		var count int64
		if err := db.Model(&models.Template{}).Where("type = ?", tpl.Type).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			tpl := tpl
			if err := db.Create(&tpl).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// One starter template per type, flagged default so composing screens have
// a pre-selection on a fresh install.
var seedTemplates = []models.Template{
	{
		Name:      "Payment reminder",
		Type:      models.TemplateTypePaymentReminder,
		Subject:   "Payment reminder for invoice {invoiceNumber}",
		Body:      "Dear {companyName},\n\nour records show an outstanding balance of {amount} for invoice {invoiceNumber}, due {dueDate}.\n\nKind regards,\n{senderName}",
		IsDefault: true,
	},
	{
		Name:      "Invoice",
		Type:      models.TemplateTypeInvoice,
		Subject:   "Invoice {invoiceNumber} from {senderCompany}",
		Body:      "Dear {companyName},\n\nplease find attached invoice {invoiceNumber} over {amount}, due {dueDate}.\n\nKind regards,\n{senderName}",
		IsDefault: true,
	},
	{
		Name:      "Order status update",
		Type:      models.TemplateTypeOrderStatus,
		Subject:   "Update on your order {orderNumber}",
		Body:      "Dear {companyName},\n\nthe status of your order {orderNumber} changed to {orderStatus}.\n\nKind regards,\n{senderName}",
		IsDefault: true,
	},
	{
		Name:      "General message",
		Type:      models.TemplateTypeGeneral,
		Subject:   "Message from {senderCompany}",
		Body:      "Dear {companyName},\n\n{message}\n\nKind regards,\n{senderName}",
		IsDefault: true,
	},
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
