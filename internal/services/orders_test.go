package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/sheets"
)

type recordingSyncer struct {
	rows    []sheets.Row
	err     error
	enabled bool
}

func (s *recordingSyncer) Sync(ctx context.Context, row sheets.Row) error {
	s.rows = append(s.rows, row)
	return s.err
}

func (s *recordingSyncer) Enabled() bool { return s.enabled }

func TestOrderCreateComputesTotalsAndSyncs(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client := models.Client{Name: "Acme GmbH", Email: "billing@acme.example"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	syncer := &recordingSyncer{enabled: true}
	svc := NewOrderService(db, syncer, nil)

	order, err := svc.Create(context.Background(), OrderInput{
		Number:   "ORD-0001",
		ClientID: client.ID,
		Currency: "EUR",
		Items: []OrderItemInput{
			{Description: "Consulting", Quantity: 2, UnitPrice: 100, VATRate: 0.19},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != models.OrderStatusDraft {
		t.Errorf("status = %q", order.Status)
	}

	totals := svc.Totals(order)
	if totals.Subtotal != 200 || totals.VATAmount != 38 || totals.Total != 238 {
		t.Errorf("totals = %+v", totals)
	}

	if len(syncer.rows) != 1 {
		t.Fatalf("expected 1 sync push, got %d", len(syncer.rows))
	}
	row := syncer.rows[0]
	if row.Number != "ORD-0001" || row.Client != "Acme GmbH" || row.Total != "238.00" || row.Currency != "EUR" {
		t.Errorf("row = %+v", row)
	}
	if row.ID == "" {
		t.Errorf("row needs the DB ID as match key")
	}
}

func TestOrderCreateUnknownClient(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewOrderService(db, nil, nil)

	_, err := svc.Create(context.Background(), OrderInput{
		Number:   "ORD-0002",
		ClientID: 42,
		Items:    []OrderItemInput{{Description: "x", Quantity: 1, UnitPrice: 1}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderCreateValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewOrderService(db, nil, nil)

	_, err := svc.Create(context.Background(), OrderInput{
		Number:   "",
		ClientID: 0,
		Items:    []OrderItemInput{{Description: "", Quantity: -1, UnitPrice: 10, DiscountRate: 1.5}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"number", "client_id", "items[0].description", "items[0].quantity", "items[0].discount_rate"} {
		if _, ok := verr.Violations[field]; !ok {
			t.Errorf("missing violation for %s: %v", field, verr.Violations)
		}
	}
}

func TestOrderSyncFailureDoesNotFailWrite(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client := models.Client{Name: "Acme"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	syncer := &recordingSyncer{enabled: true, err: errors.New("quota exceeded")}
	svc := NewOrderService(db, syncer, nil)

	order, err := svc.Create(context.Background(), OrderInput{
		Number:   "ORD-0003",
		ClientID: client.ID,
		Items:    []OrderItemInput{{Description: "x", Quantity: 1, UnitPrice: 10}},
	})
	if err != nil {
		t.Fatalf("create must succeed despite sync failure: %v", err)
	}
	got, err := svc.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Number != "ORD-0003" {
		t.Fatalf("order not persisted: %+v", got)
	}
}

func TestOrderSetStatusAndDelete(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client := models.Client{Name: "Acme"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	syncer := &recordingSyncer{enabled: true}
	svc := NewOrderService(db, syncer, nil)
	ctx := context.Background()

	order, err := svc.Create(ctx, OrderInput{
		Number:   "ORD-0004",
		ClientID: client.ID,
		Items:    []OrderItemInput{{Description: "x", Quantity: 1, UnitPrice: 10}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(ctx, order.ID, "bogus"); err == nil {
		t.Fatalf("expected validation error for unknown status")
	}
	updated, err := svc.SetStatus(ctx, order.ID, models.OrderStatusPaid)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != models.OrderStatusPaid {
		t.Errorf("status = %q", updated.Status)
	}

	if err := svc.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("soft-deleted order must be invisible, got %v", err)
	}
	// Tombstone row stays for the sheet match key.
	var count int64
	db.Unscoped().Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected tombstone row")
	}
	// The delete push marks the sheet row.
	last := syncer.rows[len(syncer.rows)-1]
	if last.Status != "deleted" {
		t.Errorf("last synced status = %q", last.Status)
	}
}
