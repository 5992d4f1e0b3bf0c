package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/marksousa/testecomerc/internal/domain"
)

func TestOrderRepository_PostgresCreateGetListAndUpdate(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	customer := seedCustomerForIntegrationTest(t, store, "customer-1", "cliente1@example.com")
	product := seedProductForIntegrationTest(t, store, "product-1", 3000)

	now := time.Now().UTC().Round(time.Microsecond)
	order1 := sampleOrder("order-1", customer.ID, product.ID, now.Add(-2*time.Minute))
	order2 := sampleOrder("order-2", customer.ID, product.ID, now.Add(-time.Minute))

	if err := repo.Create(order1, sampleNotification(order1)); err != nil {
		t.Fatalf("create order1: %v", err)
	}
	if err := repo.Create(order2, sampleNotification(order2)); err != nil {
		t.Fatalf("create order2: %v", err)
	}

	got, err := repo.Get(order1.ID)
	if err != nil {
		t.Fatalf("get order1: %v", err)
	}
	if got.ID != order1.ID || got.CustomerID != order1.CustomerID || got.Status != order1.Status {
		t.Fatalf("unexpected order payload: %+v", got)
	}
	if got.TotalAmount != order1.TotalAmount {
		t.Fatalf("unexpected total: got=%d want=%d", got.TotalAmount, order1.TotalAmount)
	}
	if len(got.Lines) != len(order1.Lines) {
		t.Fatalf("unexpected line count: got=%d want=%d", len(got.Lines), len(order1.Lines))
	}
	if got.Lines[0].Product == nil || got.Lines[0].Product.ID != product.ID {
		t.Fatalf("expected product relation on line: %+v", got.Lines[0])
	}
	if got.Customer == nil || got.Customer.Email != customer.Email {
		t.Fatalf("expected customer relation: %+v", got.Customer)
	}

	// Creating the order must have enqueued the notification in the same tx.
	pending, err := NewOutboxRepository(store).PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending notifications, got %d", len(pending))
	}

	listed, err := repo.ListByCustomer(customer.ID, domain.Page{Number: 1, Size: 1})
	if err != nil {
		t.Fatalf("list by customer page 1: %v", err)
	}
	if len(listed.Orders) != 1 || listed.Orders[0].ID != order2.ID {
		t.Fatalf("unexpected first page: %+v", listed.Orders)
	}
	if listed.Total != 2 || listed.LastPage() != 2 {
		t.Fatalf("unexpected paging: total=%d last=%d", listed.Total, listed.LastPage())
	}

	all, err := repo.List(domain.Page{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all.Orders))
	}

	got.Status = domain.OrderStatusDelivered
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(got); err != nil {
		t.Fatalf("update order: %v", err)
	}

	updated, err := repo.Get(order1.ID)
	if err != nil {
		t.Fatalf("get updated order: %v", err)
	}
	if updated.Status != domain.OrderStatusDelivered {
		t.Fatalf("unexpected status after update: %s", updated.Status)
	}
	if updated.Version != got.Version+1 {
		t.Fatalf("unexpected version after update: got=%d want=%d", updated.Version, got.Version+1)
	}
}

func TestOrderRepository_PostgresLineReplace(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	customer := seedCustomerForIntegrationTest(t, store, "customer-1", "cliente1@example.com")
	p10 := seedProductForIntegrationTest(t, store, "product-10", 1000)
	p20 := seedProductForIntegrationTest(t, store, "product-20", 2000)

	now := time.Now().UTC().Round(time.Microsecond)
	order := sampleOrder("order-replace", customer.ID, p10.ID, now)
	if err := repo.Create(order, sampleNotification(order)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	order.Lines = []domain.OrderLine{
		{
			ID:        "line-new-1",
			ProductID: p20.ID,
			Quantity:  3,
			UnitPrice: p20.Price,
			CreatedAt: now.Add(time.Second),
		},
	}
	order.TotalAmount = 6000
	order.UpdatedAt = now.Add(time.Second)
	if err := repo.Update(order); err != nil {
		t.Fatalf("replace lines: %v", err)
	}

	got, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].ProductID != p20.ID {
		t.Fatalf("expected full line replace, got %+v", got.Lines)
	}
	if got.TotalAmount != 6000 {
		t.Fatalf("unexpected total after replace: %d", got.TotalAmount)
	}
}

func TestOrderRepository_PostgresSoftDelete(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	customer := seedCustomerForIntegrationTest(t, store, "customer-1", "cliente1@example.com")
	product := seedProductForIntegrationTest(t, store, "product-1", 3000)

	now := time.Now().UTC().Round(time.Microsecond)
	order := sampleOrder("order-del", customer.ID, product.ID, now)
	if err := repo.Create(order, sampleNotification(order)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := repo.SoftDelete(order.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := repo.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	page, err := repo.List(domain.Page{})
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected empty listing after delete, got %d", page.Total)
	}

	if err := repo.SoftDelete(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestOrderRepository_PostgresErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	customer := seedCustomerForIntegrationTest(t, store, "customer-2", "cliente2@example.com")
	product := seedProductForIntegrationTest(t, store, "product-2", 1500)

	now := time.Now().UTC().Round(time.Microsecond)
	base := sampleOrder("order-errors", customer.ID, product.ID, now)

	if _, err := repo.Get("missing-order"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if err := repo.Update(base); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on update missing, got %v", err)
	}

	if err := repo.Create(base, sampleNotification(base)); err != nil {
		t.Fatalf("create base order: %v", err)
	}
	if err := repo.Create(base, sampleNotification(base)); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict on duplicate create, got %v", err)
	}

	stale := base
	stale.Status = domain.OrderStatusCancelled
	stale.UpdatedAt = now.Add(time.Minute)
	stale.Version = 42
	if err := repo.Update(stale); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict on stale update, got %v", err)
	}
}

func TestOrderRepository_PostgresCreateSnapshotAndReplaceFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	products := NewProductRepository(store)

	customer := seedCustomerForIntegrationTest(t, store, "customer-flow", "flow@example.com")
	p50 := seedProductForIntegrationTest(t, store, "product-50", 5000)
	p15 := seedProductForIntegrationTest(t, store, "product-15", 1500)

	now := time.Now().UTC().Round(time.Microsecond)
	order := domain.Order{
		ID:         "order-flow",
		CustomerID: customer.ID,
		Status:     domain.OrderStatusPending,
		Lines: []domain.OrderLine{
			{ID: "flow-line-1", ProductID: p50.ID, Quantity: 2, UnitPrice: p50.Price, CreatedAt: now},
			{ID: "flow-line-2", ProductID: p15.ID, Quantity: 2, UnitPrice: p15.Price, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.TotalAmount = order.CalculateTotal()
	if order.TotalAmount != 13000 {
		t.Fatalf("unexpected computed total: %d", order.TotalAmount)
	}

	if err := repo.Create(order, sampleNotification(order)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	pending, err := NewOutboxRepository(store).PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 1 || pending[0].AggregateID != order.ID {
		t.Fatalf("expected exactly one notification for the order, got %+v", pending)
	}

	// A later catalog price change must not touch the stored snapshots.
	p50.Price = 9900
	p50.UpdatedAt = now.Add(time.Second)
	if err := products.Update(p50); err != nil {
		t.Fatalf("update product price: %v", err)
	}
	got, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get order after price change: %v", err)
	}
	if got.TotalAmount != 13000 {
		t.Fatalf("snapshot total changed with catalog price: %d", got.TotalAmount)
	}

	got.Lines = []domain.OrderLine{
		{ID: "flow-line-3", ProductID: p50.ID, Quantity: 4, UnitPrice: 9900, CreatedAt: now.Add(time.Second)},
		{ID: "flow-line-4", ProductID: p15.ID, Quantity: 1, UnitPrice: p15.Price, CreatedAt: now.Add(time.Second)},
	}
	got.TotalAmount = got.CalculateTotal()
	if got.TotalAmount != 41100 {
		t.Fatalf("unexpected total after replace: %d", got.TotalAmount)
	}
	got.UpdatedAt = now.Add(time.Second)
	if err := repo.Update(got); err != nil {
		t.Fatalf("replace lines: %v", err)
	}

	replaced, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get replaced order: %v", err)
	}
	if replaced.TotalAmount != 41100 || len(replaced.Lines) != 2 {
		t.Fatalf("unexpected replaced order: total=%d lines=%d", replaced.TotalAmount, len(replaced.Lines))
	}

	if err := repo.SoftDelete(order.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestOrderRepository_PostgresSoftDeletedCustomerNotAttached(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	customer := seedCustomerForIntegrationTest(t, store, "customer-gone", "gone@example.com")
	product := seedProductForIntegrationTest(t, store, "product-1", 3000)

	now := time.Now().UTC().Round(time.Microsecond)
	order := sampleOrder("order-orphan", customer.ID, product.ID, now)
	if err := repo.Create(order, sampleNotification(order)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := NewCustomerRepository(store).SoftDelete(customer.ID); err != nil {
		t.Fatalf("soft delete customer: %v", err)
	}

	got, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Customer != nil {
		t.Fatalf("expected no customer relation after customer delete, got %+v", got.Customer)
	}
	if got.CustomerID != customer.ID {
		t.Fatalf("customer id must stay on the order, got %q", got.CustomerID)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected unique violation for code 23505")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "22001"}) {
		t.Fatal("unexpected unique violation for non-unique code")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("plain error must not be unique violation")
	}
}

func sampleOrder(id, customerID, productID string, createdAt time.Time) domain.Order {
	lines := []domain.OrderLine{
		{
			ID:        id + "-line-1",
			ProductID: productID,
			Quantity:  2,
			UnitPrice: 3000,
			CreatedAt: createdAt,
		},
	}

	return domain.Order{
		ID:          id,
		CustomerID:  customerID,
		Status:      domain.OrderStatusPending,
		TotalAmount: 6000,
		Lines:       lines,
		Version:     0,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func sampleNotification(order domain.Order) domain.OutboxMessage {
	return domain.OutboxMessage{
		AggregateType: domain.AggregateOrder,
		AggregateID:   order.ID,
		EventType:     domain.EventOrderCreated,
		Payload:       []byte(`{"order_id":"` + order.ID + `"}`),
	}
}
