package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/marksousa/testecomerc/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates the PostgreSQL implementation of OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order, notification domain.OutboxMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, status, total_amount_cents, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.CustomerID, string(order.Status),
		int64(order.TotalAmount), order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err = insertLinesTx(ctx, tx, order.ID, order.Lines); err != nil {
		return err
	}

	// Same transaction as the order: the notification exists iff the order does.
	if _, err = enqueueOutboxTx(ctx, tx, notification); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.getTx(ctx, r.db, id)
	if err != nil {
		return domain.Order{}, err
	}

	if err := r.attachRelations(ctx, &order); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (r *orderRepository) List(page domain.Page) (domain.OrderPage, error) {
	return r.list(page, "")
}

func (r *orderRepository) ListByCustomer(customerID string, page domain.Page) (domain.OrderPage, error) {
	return r.list(page, customerID)
}

func (r *orderRepository) list(page domain.Page, customerID string) (domain.OrderPage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	page = page.Normalize()

	where := "deleted_at IS NULL"
	args := []any{}
	if customerID != "" {
		where += " AND customer_id = $1"
		args = append(args, customerID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE "+where, args...,
	).Scan(&total); err != nil {
		return domain.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, customer_id, status, total_amount_cents, version, created_at, updated_at
		FROM orders
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, page.Size)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return domain.OrderPage{}, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		if err := r.attachRelations(ctx, &orders[i]); err != nil {
			return domain.OrderPage{}, err
		}
	}

	return domain.OrderPage{
		Orders: orders,
		Total:  total,
		Number: page.Number,
		Size:   page.Size,
	}, nil
}

func (r *orderRepository) Update(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Row lock first so concurrent replaces serialize on the order.
	var currentVersion int64
	err = tx.QueryRowContext(ctx, `
		SELECT version
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, order.ID).Scan(&currentVersion)
	if errors.Is(err, sql.ErrNoRows) {
		err = domain.ErrOrderNotFound
		return err
	}
	if err != nil {
		return fmt.Errorf("lock order row: %w", err)
	}
	if currentVersion != order.Version {
		err = domain.ErrOrderVersionConflict
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2,
		    total_amount_cents = $3,
		    version = version + 1,
		    updated_at = $4
		WHERE id = $1
	`, order.ID, string(order.Status), int64(order.TotalAmount), order.UpdatedAt); err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	// Full replace: old lines go, the new set comes in.
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("detach order lines: %w", err)
	}
	if err = insertLinesTx(ctx, tx, order.ID, order.Lines); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update order: %w", err)
	}

	return nil
}

func (r *orderRepository) SoftDelete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET deleted_at = $2,
		    updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrOrderNotFound
		return err
	}

	// Destructive detach: the lines do not survive the soft delete.
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("detach order lines: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit soft delete: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
		total  int64
	)
	if err := row.Scan(
		&order.ID, &order.CustomerID, &status, &total,
		&order.Version, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, fmt.Errorf("scan order row: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	order.TotalAmount = domain.Money(total)
	return order, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *orderRepository) getTx(ctx context.Context, q queryer, id string) (domain.Order, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, customer_id, status, total_amount_cents, version, created_at, updated_at
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
	`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (r *orderRepository) attachRelations(ctx context.Context, order *domain.Order) error {
	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Lines = lines

	customer, err := r.loadCustomer(ctx, order.CustomerID)
	if err != nil {
		return err
	}
	order.Customer = customer

	return nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.product_id, l.quantity, l.unit_price_cents, l.created_at,
		       p.id, p.name, p.price_cents, p.photo_url, p.created_at, p.updated_at
		FROM order_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
		ORDER BY l.created_at ASC, l.id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var (
			line      domain.OrderLine
			unitPrice int64

			productID        sql.NullString
			productName      sql.NullString
			productPrice     sql.NullInt64
			productPhoto     sql.NullString
			productCreatedAt sql.NullTime
			productUpdatedAt sql.NullTime
		)
		if err := rows.Scan(
			&line.ID, &line.ProductID, &line.Quantity, &unitPrice, &line.CreatedAt,
			&productID, &productName, &productPrice, &productPhoto, &productCreatedAt, &productUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		line.UnitPrice = domain.Money(unitPrice)

		if productID.Valid {
			line.Product = &domain.Product{
				ID:        productID.String,
				Name:      productName.String,
				Price:     domain.Money(productPrice.Int64),
				PhotoURL:  productPhoto.String,
				CreatedAt: productCreatedAt.Time,
				UpdatedAt: productUpdatedAt.Time,
			}
		}

		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) loadCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, birthdate, address, address_line_two,
		       neighborhood, zip_code, created_at, updated_at
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
	`, customerID).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
		&customer.Birthdate, &customer.Address, &customer.AddressLineTwo,
		&customer.Neighborhood, &customer.ZipCode, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// The customer can be soft-deleted after the order was placed;
		// the order still lists with a bare customer_id.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order customer: %w", err)
	}

	return &customer, nil
}

func insertLinesTx(ctx context.Context, tx *sql.Tx, orderID string, lines []domain.OrderLine) error {
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (
				id, order_id, product_id, quantity, unit_price_cents, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			line.ID, orderID, line.ProductID, line.Quantity, int64(line.UnitPrice), line.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
