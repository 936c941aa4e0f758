package records

import (
	"context"
	"errors"
)

// ErrDuplicateRecord indicates an insert collided with an existing row.
var ErrDuplicateRecord = errors.New("records: duplicate record")

// Store is the read contract the reporting engine depends on. Each method
// returns the full history for its record kind; the engine performs its own
// date filtering. A method either returns the complete set or an error;
// partial sets are never returned.
type Store interface {
	ListSales(ctx context.Context) ([]Sale, error)
	ListWholesaleSales(ctx context.Context) ([]Sale, error)
	ListExpenses(ctx context.Context) ([]Expense, error)
	ListReturns(ctx context.Context) ([]Return, error)
	ListInventory(ctx context.Context) ([]InventoryLot, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}
