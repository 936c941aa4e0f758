// Package records defines the transactional record model shared by the
// reporting engine and the storage layer. Records are immutable inputs:
// nothing in this repository mutates a record after it has been loaded.
package records

import "time"

// SaleStatus enumerates payment states carried on a sale.
type SaleStatus string

const (
	StatusPaid   SaleStatus = "Paid"
	StatusUnpaid SaleStatus = "Unpaid"
	StatusCash   SaleStatus = "Cash"
	StatusGPay   SaleStatus = "GPay"
	StatusFree   SaleStatus = "Free"
)

// Channel distinguishes retail from wholesale sales.
type Channel string

const (
	ChannelRetail    Channel = "Retail"
	ChannelWholesale Channel = "Wholesale"
)

// LineItem is a single product line on a sale. Products are referenced by
// name here; the catalog join happens inside the reporting engine.
type LineItem struct {
	ProductName string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"price"`
}

// Sale is a retail or wholesale sale. TotalAmount is the stored invoice
// total; it usually equals the sum of the line totals but the engine must
// tolerate drift, so revenue uses TotalAmount and margins recompute lines.
type Sale struct {
	ID            string
	InvoiceNumber string
	CustomerName  string
	WarehouseID   string
	Date          time.Time
	Status        SaleStatus
	Channel       Channel
	LineItems     []LineItem
	TotalAmount   float64
}

// ReturnedItem references the catalog by product ID, unlike sale lines.
type ReturnedItem struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"price"`
}

// Return records refunded items against an earlier sale.
type Return struct {
	ID                    string
	OriginalSaleID        string
	OriginalInvoiceNumber string
	CustomerName          string
	WarehouseID           string
	Date                  time.Time
	ReturnedItems         []ReturnedItem
	TotalRefundAmount     float64
	Reason                string
}

// Expense is an operating cost entry. WarehouseID may be empty for costs
// not attributable to a single location.
type Expense struct {
	ID          string
	Category    string
	Description string
	Amount      float64
	Date        time.Time
	WarehouseID string
}

// InventoryLot is the on-hand stock of one product in one warehouse.
// A product may have lots in several warehouses at different unit costs.
type InventoryLot struct {
	ID             string
	ProductID      string
	WarehouseID    string
	QuantityOnHand float64
	CostPerUnit    float64
}

// Product is a catalog entry. Name doubles as the join key used by sale
// line items, so it is unique.
type Product struct {
	ID           string
	Name         string
	DefaultPrice float64
	Unit         string
}

// Warehouse is a stock location.
type Warehouse struct {
	ID   string
	Name string
}

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionActive SubscriptionStatus = "Active"
	SubscriptionPaused SubscriptionStatus = "Paused"
	SubscriptionEnded  SubscriptionStatus = "Ended"
)

// Subscription is a recurring delivery customer.
type Subscription struct {
	ID                   string
	InvoiceNumber        string
	Name                 string
	Email                string
	Phone                string
	Address              string
	FlatNo               string
	Plan                 string
	Status               SubscriptionStatus
	StartDate            time.Time
	PreferredDeliveryDay string
	BoxesPerMonth        int
}

// LineTotal returns quantity times unit price for one sale line.
func (li LineItem) LineTotal() float64 {
	return li.Quantity * li.UnitPrice
}

// RefundTotal returns quantity times unit price for one returned item.
func (ri ReturnedItem) RefundTotal() float64 {
	return ri.Quantity * ri.UnitPrice
}
