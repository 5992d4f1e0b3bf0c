package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marksousa/testecomerc/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates the PostgreSQL implementation of CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (
			id, name, email, phone, birthdate, address, address_line_two,
			neighborhood, zip_code, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		customer.ID, customer.Name, customer.Email, customer.Phone,
		customer.Birthdate, customer.Address, customer.AddressLineTwo,
		customer.Neighborhood, customer.ZipCode, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCustomerEmailTaken
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, birthdate, address, address_line_two,
		       neighborhood, zip_code, created_at, updated_at
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
		&customer.Birthdate, &customer.Address, &customer.AddressLineTwo,
		&customer.Neighborhood, &customer.ZipCode, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) List(page domain.Page) (domain.CustomerPage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	page = page.Normalize()

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL`,
	).Scan(&total); err != nil {
		return domain.CustomerPage{}, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, birthdate, address, address_line_two,
		       neighborhood, zip_code, created_at, updated_at
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, page.Size, page.Offset())
	if err != nil {
		return domain.CustomerPage{}, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, page.Size)
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
			&customer.Birthdate, &customer.Address, &customer.AddressLineTwo,
			&customer.Neighborhood, &customer.ZipCode, &customer.CreatedAt, &customer.UpdatedAt,
		); err != nil {
			return domain.CustomerPage{}, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return domain.CustomerPage{}, fmt.Errorf("iterate customer rows: %w", err)
	}

	return domain.CustomerPage{
		Customers: customers,
		Total:     total,
		Number:    page.Number,
		Size:      page.Size,
	}, nil
}

func (r *customerRepository) Update(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2,
		    email = $3,
		    phone = $4,
		    birthdate = $5,
		    address = $6,
		    address_line_two = $7,
		    neighborhood = $8,
		    zip_code = $9,
		    updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`,
		customer.ID, customer.Name, customer.Email, customer.Phone,
		customer.Birthdate, customer.Address, customer.AddressLineTwo,
		customer.Neighborhood, customer.ZipCode, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCustomerEmailTaken
		}
		return fmt.Errorf("update customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func (r *customerRepository) SoftDelete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET deleted_at = $2,
		    updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
var _ domain.CustomerLookup = (*customerRepository)(nil)
