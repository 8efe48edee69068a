package erp

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderReturned   OrderStatus = "returned"
	OrderCancelled  OrderStatus = "cancelled"
)

type ShipmentStatus string

const (
	ShipmentProcessing     ShipmentStatus = "processing"
	ShipmentInTransit      ShipmentStatus = "in_transit"
	ShipmentOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentDelivered      ShipmentStatus = "delivered"
	ShipmentFailed         ShipmentStatus = "failed"
	ShipmentReturned       ShipmentStatus = "returned"
)

type ProductCategory string

const (
	CategoryElectronics ProductCategory = "electronics"
	CategoryClothing    ProductCategory = "clothing"
	CategoryHome        ProductCategory = "home"
)

type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    ProductCategory
	Weight      float64            // kg
	Dimensions  map[string]float64 // length/width/height in cm
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InventoryItem struct {
	ProductID        string
	Quantity         int
	WarehouseID      string
	Location         string // shelf/bin
	LastRestockDate  time.Time
	ReorderThreshold int
	ReorderQuantity  int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type TrackingEvent struct {
	Timestamp   time.Time
	Location    string
	Status      ShipmentStatus
	Description string
}

type Shipment struct {
	ID                string
	OrderID           string
	Carrier           string
	TrackingNumber    string
	Status            ShipmentStatus
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	TrackingHistory   []TrackingEvent
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type OrderItem struct {
	ProductID    string
	Quantity     int
	UnitPrice    float64
	TotalPrice   float64
	IsReturned   bool
	ReturnReason string
}

type Order struct {
	ID          string
	CustomerID  string
	Status      OrderStatus
	Items       []OrderItem
	TotalAmount float64
	ShipmentID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReturnRequest struct {
	ID           string
	OrderID      string
	Items        []OrderItem
	Reason       string
	Status       string // pending, approved, rejected, completed
	RefundAmount float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

/* ------------------------------ read views ------------------------------ */

// OrderItemInfo is an order line joined with its product name.
type OrderItemInfo struct {
	ProductID    string
	ProductName  string
	Quantity     int
	UnitPrice    float64
	TotalPrice   float64
	IsReturned   bool
	ReturnReason string
}

// OrderInfo is a consistent snapshot of one order.
type OrderInfo struct {
	ID           string
	CustomerID   string
	CustomerName string
	Status       OrderStatus
	Items        []OrderItemInfo
	TotalAmount  float64
	CreatedAt    time.Time
	ShipmentID   string
}

// TrackingInfo is a consistent snapshot of an order's shipment.
type TrackingInfo struct {
	Carrier           string
	TrackingNumber    string
	Status            ShipmentStatus
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	History           []TrackingEvent
}

// StockInfo is a consistent snapshot of one product's inventory position.
type StockInfo struct {
	ProductID       string
	ProductName     string
	StockLevel      int
	Available       bool
	WarehouseID     string
	Location        string
	RestockExpected string // "" when no restock estimate applies
}

// ResendResult reports a processed resend.
type ResendResult struct {
	ShipmentID        string
	OrderID           string
	ProductID         string
	TrackingNumber    string
	EstimatedDelivery time.Time
}

// ReturnResult reports a processed return.
type ReturnResult struct {
	ReturnID     string
	OrderID      string
	ProductID    string
	Status       string
	RefundAmount float64
}
