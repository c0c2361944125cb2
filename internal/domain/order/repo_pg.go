package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const orderCols = `id, owner_id, medicine_id, medicine_name, price_per_unit,
	quantity, total_price, customer_name, phone, delivery_address, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*MedicineOrder, error) {
	var o MedicineOrder
	err := row.Scan(&o.ID, &o.OwnerID, &o.MedicineID, &o.MedicineName, &o.PricePerUnit,
		&o.Quantity, &o.TotalPrice, &o.CustomerName, &o.Phone, &o.DeliveryAddress,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*MedicineOrder, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicine_orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+orderCols+` FROM medicine_orders
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicineOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*MedicineOrder, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicine_orders WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+orderCols+` FROM medicine_orders WHERE owner_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicineOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicineOrder, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderCols+` FROM medicine_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *repoPG) Create(ctx context.Context, o *MedicineOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medicine_orders (id, owner_id, medicine_id, medicine_name, price_per_unit,
			quantity, total_price, customer_name, phone, delivery_address, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.OwnerID, o.MedicineID, o.MedicineName, o.PricePerUnit,
		o.Quantity, o.TotalPrice, o.CustomerName, o.Phone, o.DeliveryAddress, o.Status)
	return err
}

func (r *repoPG) UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if p.Quantity != nil {
		add("quantity", *p.Quantity)
		// SET expressions see old row values, so recompute from the
		// bound parameter to keep total = quantity x snapshotted price.
		sets = append(sets, fmt.Sprintf("total_price = $%d * price_per_unit", idx-1))
	}
	if p.CustomerName != nil {
		add("customer_name", *p.CustomerName)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.DeliveryAddress != nil {
		add("delivery_address", *p.DeliveryAddress)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE medicine_orders SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM medicine_orders WHERE id = $1`, id)
	return err
}
