package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/config"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/handlers"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/mail"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/middleware"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/sheets"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/storage"
)

// Deps bundles the externally constructed pieces the router wires up.
type Deps struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Log    *zap.Logger
	Mailer mail.Dispatcher
	Sheets *sheets.Client
	Store  *storage.Store
}

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	// RequireAuth checks the session user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := d.DB.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	templates := services.NewTemplateService(d.DB)
	settings := services.NewSettingsService(d.DB)
	var syncer services.RowSyncer
	if d.Sheets != nil {
		syncer = d.Sheets
	}
	orders := services.NewOrderService(d.DB, syncer, log)
	support := services.NewSupportService(d.DB, d.Mailer, adminAddresses(d.DB), log)
	notify := services.NewNotifyService(templates, orders, d.Mailer, companyLoader(d.DB), log)

	handlers.NewAuthHandler(d.DB).Register(mux)
	handlers.NewTemplateHandler(templates).Register(mux)
	handlers.NewOrderHandler(orders, notify).Register(mux)
	handlers.NewDocumentHandler(d.DB, orders, settings).Register(mux)
	handlers.NewSettingsHandler(settings, d.DB).Register(mux)
	handlers.NewSupportHandler(support, d.Store).Register(mux)
	if d.Cfg != nil {
		handlers.NewPrivacyHandler(d.Cfg.Privacy.ExportURL, d.Cfg.Privacy.DeleteURL, log).Register(mux)
	}

	return middleware.Prefs(auth.Middleware(withRecover(withLogging(mux, log), log)))
}

// adminAddresses lists admin mail targets for ticket notifications.
func adminAddresses(db *gorm.DB) []string {
	var out []string
	if err := db.Model(&models.User{}).Where("role = ?", auth.RoleAdmin).Pluck("email", &out).Error; err != nil {
		return nil
	}
	return out
}

func companyLoader(db *gorm.DB) func(ctx context.Context) (*models.CompanyProfile, error) {
	return func(ctx context.Context) (*models.CompanyProfile, error) {
		var profile models.CompanyProfile
		if err := db.WithContext(ctx).First(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
