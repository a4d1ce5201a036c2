package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/i18n"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/render"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/sheets"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/validation"
)

var orderStatuses = []string{
	models.OrderStatusDraft,
	models.OrderStatusInProgress,
	models.OrderStatusInvoiced,
	models.OrderStatusPaid,
}

// RowSyncer pushes one order row to the external spreadsheet.
// *sheets.Client implements it.
type RowSyncer interface {
	Sync(ctx context.Context, row sheets.Row) error
	Enabled() bool
}

// OrderService manages orders and mirrors every write to the spreadsheet
// when a syncer is configured. Sync failures never fail the write; they
// are logged and the next write retries the full row.
type OrderService struct {
	db     *gorm.DB
	syncer RowSyncer
	log    *zap.Logger
}

func NewOrderService(db *gorm.DB, syncer RowSyncer, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{db: db, syncer: syncer, log: log}
}

// OrderItemInput is one line of the create/update payload.
type OrderItemInput struct {
	Description  string  `json:"description"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	DiscountRate float64 `json:"discount_rate"`
	VATRate      float64 `json:"vat_rate"`
}

// OrderInput is the create payload.
type OrderInput struct {
	Number   string           `json:"number"`
	ClientID uint             `json:"client_id"`
	Currency string           `json:"currency"`
	Notes    string           `json:"notes"`
	Items    []OrderItemInput `json:"items"`
}

func (in OrderInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("number", in.Number, v)
	if in.ClientID == 0 {
		v["client_id"] = "required"
	}
	if len(in.Items) == 0 {
		v["items"] = "required"
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		validation.Required(field+".description", it.Description, v)
		validation.NonNegativeInt(field+".quantity", it.Quantity, v)
		validation.NonNegativeFloat(field+".unit_price", it.UnitPrice, v)
		validation.RateFloat(field+".discount_rate", it.DiscountRate, v)
		validation.RateFloat(field+".vat_rate", it.VATRate, v)
	}
	return v
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	if v := in.validate(); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}
	order := models.Order{
		Number:   in.Number,
		ClientID: in.ClientID,
		Status:   models.OrderStatusDraft,
		Currency: currency,
		Notes:    in.Notes,
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
			VATRate:      it.VATRate,
		})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		order.Client = client
		return tx.Create(&order).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.pushRow(ctx, &order)
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Items").Preload("Client").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items").Preload("Client").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// SetStatus moves the order to any of the known statuses. Order status
// is operator-driven, not a strict machine like tickets.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	v := validation.Violations{}
	validation.OneOf("status", status, orderStatuses, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(o).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}
	o.Status = status
	s.pushRow(ctx, o)
	return o, nil
}

// Delete soft-deletes the order. The tombstone keeps the ID stable so the
// spreadsheet row can be marked instead of orphaned.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	o, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(o).Error; err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	o.Status = "deleted"
	s.pushRow(ctx, o)
	return nil
}

// Totals computes the order's money amounts at full precision.
func (s *OrderService) Totals(o *models.Order) render.Totals {
	items := make([]render.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, render.LineItem{
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
			VATRate:      it.VATRate,
		})
	}
	return render.ComputeTotals(items, true)
}

// SyncAll re-pushes every live order, for recovering after spreadsheet
// outages.
func (s *OrderService) SyncAll(ctx context.Context) error {
	if s.syncer == nil || !s.syncer.Enabled() {
		return sheets.ErrDisabled
	}
	orders, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	rows := make([]sheets.Row, 0, len(orders))
	for i := range orders {
		rows = append(rows, s.row(&orders[i]))
	}
	for _, row := range rows {
		if err := s.syncer.Sync(ctx, row); err != nil {
			return fmt.Errorf("sync order %s: %w", row.ID, err)
		}
	}
	return nil
}

func (s *OrderService) row(o *models.Order) sheets.Row {
	totals := s.Totals(o)
	return sheets.Row{
		ID:       sheets.FormatOrderID(o.ID),
		Number:   o.Number,
		Client:   o.Client.Name,
		Status:   o.Status,
		Total:    fmt.Sprintf("%.2f", i18n.RoundTo(totals.Total, 2)),
		Currency: o.Currency,
		Updated:  o.UpdatedAt,
	}
}

func (s *OrderService) pushRow(ctx context.Context, o *models.Order) {
	if s.syncer == nil || !s.syncer.Enabled() {
		return
	}
	if err := s.syncer.Sync(ctx, s.row(o)); err != nil {
		s.log.Warn("spreadsheet sync failed",
			zap.String("order", o.Number),
			zap.Error(err))
	}
}
