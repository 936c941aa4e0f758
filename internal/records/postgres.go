package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL-backed Store. Line items and returned items
// are stored as jsonb, matching the shape the dashboard frontend submits.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListSales(ctx context.Context) ([]Sale, error) {
	return r.listSales(ctx, "sales", ChannelRetail)
}

func (r *Repository) ListWholesaleSales(ctx context.Context) ([]Sale, error) {
	return r.listSales(ctx, "wholesale_sales", ChannelWholesale)
}

func (r *Repository) listSales(ctx context.Context, table string, channel Channel) ([]Sale, error) {
	query := fmt.Sprintf(`SELECT id, invoice_number, customer_name, warehouse_id, date, status, total_amount, products FROM %s ORDER BY date, id`, table)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("records: list %s: %w", table, err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var (
			s     Sale
			items []byte
		)
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerName, &s.WarehouseID, &s.Date, &s.Status, &s.TotalAmount, &items); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &s.LineItems); err != nil {
				return nil, fmt.Errorf("records: decode %s line items %s: %w", table, s.ID, err)
			}
		}
		s.Channel = channel
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *Repository) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, category, description, amount, date, COALESCE(warehouse_id, '') FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("records: list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Date, &e.WarehouseID); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *Repository) ListReturns(ctx context.Context) ([]Return, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, sale_id, invoice_number, customer_name, COALESCE(warehouse_id, ''), date, returned_products, total_refund, COALESCE(reason, '') FROM sales_returns ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("records: list returns: %w", err)
	}
	defer rows.Close()

	var returns []Return
	for rows.Next() {
		var (
			ret   Return
			items []byte
		)
		if err := rows.Scan(&ret.ID, &ret.OriginalSaleID, &ret.OriginalInvoiceNumber, &ret.CustomerName, &ret.WarehouseID, &ret.Date, &items, &ret.TotalRefundAmount, &ret.Reason); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &ret.ReturnedItems); err != nil {
				return nil, fmt.Errorf("records: decode returned items %s: %w", ret.ID, err)
			}
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

func (r *Repository) ListInventory(ctx context.Context) ([]InventoryLot, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, product_id, warehouse_id, quantity, cost_per_unit FROM inventory ORDER BY product_id, warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("records: list inventory: %w", err)
	}
	defer rows.Close()

	var lots []InventoryLot
	for rows.Next() {
		var lot InventoryLot
		if err := rows.Scan(&lot.ID, &lot.ProductID, &lot.WarehouseID, &lot.QuantityOnHand, &lot.CostPerUnit); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, default_price, unit FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("records: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.DefaultPrice, &p.Unit); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("records: list warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, invoice_number, name, email, COALESCE(phone, ''), COALESCE(address, ''), COALESCE(flat_no, ''), plan, status, start_date, COALESCE(preferred_delivery_day, 'Any Day'), COALESCE(boxes_per_month, 1) FROM subscriptions ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("records: list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.InvoiceNumber, &sub.Name, &sub.Email, &sub.Phone, &sub.Address, &sub.FlatNo, &sub.Plan, &sub.Status, &sub.StartDate, &sub.PreferredDeliveryDay, &sub.BoxesPerMonth); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// InsertSale stores a sale in the table matching its channel, generating an
// ID when none is supplied. Used by the seed tool; the engine never writes.
func (r *Repository) InsertSale(ctx context.Context, s Sale) (string, error) {
	if s.ID == "" {
		s.ID = NewID("sale")
	}
	table := "sales"
	if s.Channel == ChannelWholesale {
		table = "wholesale_sales"
	}
	items, err := json.Marshal(s.LineItems)
	if err != nil {
		return "", fmt.Errorf("records: encode line items: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, invoice_number, customer_name, warehouse_id, date, status, total_amount, products) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, table)
	if _, err := r.pool.Exec(ctx, query, s.ID, s.InvoiceNumber, s.CustomerName, s.WarehouseID, s.Date, s.Status, s.TotalAmount, items); err != nil {
		return "", mapInsertErr(table, err)
	}
	return s.ID, nil
}

// InsertExpense stores one expense row.
func (r *Repository) InsertExpense(ctx context.Context, e Expense) (string, error) {
	if e.ID == "" {
		e.ID = NewID("exp")
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO expenses (id, category, description, amount, date, warehouse_id) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
		e.ID, e.Category, e.Description, e.Amount, e.Date, e.WarehouseID); err != nil {
		return "", mapInsertErr("expenses", err)
	}
	return e.ID, nil
}

// InsertReturn stores one sales return.
func (r *Repository) InsertReturn(ctx context.Context, ret Return) (string, error) {
	if ret.ID == "" {
		ret.ID = NewID("ret")
	}
	items, err := json.Marshal(ret.ReturnedItems)
	if err != nil {
		return "", fmt.Errorf("records: encode returned items: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO sales_returns (id, sale_id, invoice_number, customer_name, warehouse_id, date, returned_products, total_refund, reason) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''))`,
		ret.ID, ret.OriginalSaleID, ret.OriginalInvoiceNumber, ret.CustomerName, ret.WarehouseID, ret.Date, items, ret.TotalRefundAmount, ret.Reason); err != nil {
		return "", mapInsertErr("sales_returns", err)
	}
	return ret.ID, nil
}

// InsertProduct stores one catalog product.
func (r *Repository) InsertProduct(ctx context.Context, p Product) (string, error) {
	if p.ID == "" {
		p.ID = NewID("prod")
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO products (id, name, default_price, unit) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.DefaultPrice, p.Unit); err != nil {
		return "", mapInsertErr("products", err)
	}
	return p.ID, nil
}

// InsertWarehouse stores one warehouse.
func (r *Repository) InsertWarehouse(ctx context.Context, w Warehouse) (string, error) {
	if w.ID == "" {
		w.ID = NewID("wh")
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO warehouses (id, name) VALUES ($1, $2)`, w.ID, w.Name); err != nil {
		return "", mapInsertErr("warehouses", err)
	}
	return w.ID, nil
}

// UpsertInventoryLot stores or replaces the lot for a product/warehouse pair.
func (r *Repository) UpsertInventoryLot(ctx context.Context, lot InventoryLot) (string, error) {
	if lot.ID == "" {
		lot.ID = NewID("inv")
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO inventory (id, product_id, warehouse_id, quantity, cost_per_unit) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (product_id, warehouse_id) DO UPDATE SET quantity = EXCLUDED.quantity, cost_per_unit = EXCLUDED.cost_per_unit`,
		lot.ID, lot.ProductID, lot.WarehouseID, lot.QuantityOnHand, lot.CostPerUnit); err != nil {
		return "", mapInsertErr("inventory", err)
	}
	return lot.ID, nil
}

// InsertSubscription stores one subscription.
func (r *Repository) InsertSubscription(ctx context.Context, sub Subscription) (string, error) {
	if sub.ID == "" {
		sub.ID = NewID("sub")
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO subscriptions (id, invoice_number, name, email, phone, address, flat_no, plan, status, start_date, preferred_delivery_day, boxes_per_month) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sub.ID, sub.InvoiceNumber, sub.Name, sub.Email, sub.Phone, sub.Address, sub.FlatNo, sub.Plan, sub.Status, sub.StartDate, sub.PreferredDeliveryDay, sub.BoxesPerMonth); err != nil {
		return "", mapInsertErr("subscriptions", err)
	}
	return sub.ID, nil
}

func mapInsertErr(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("records: %s: %w", table, ErrDuplicateRecord)
	}
	return fmt.Errorf("records: insert %s: %w", table, err)
}

// NewID builds a prefixed identifier in the format the dashboard has always
// used: prefix, millisecond timestamp, short random suffix.
func NewID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}
