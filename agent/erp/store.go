package erp

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNotInOrder = errors.New("product not found in order")
	ErrAlreadyReturned   = errors.New("item already returned")
	ErrNoTracking        = errors.New("no tracking information")
)

// OutOfStockError carries the stock position alongside the failure so tool
// output can include the level and restock estimate.
type OutOfStockError struct {
	ProductID       string
	StockLevel      int
	RestockExpected string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s out of stock", e.ProductID)
}

// Store owns the simulated order/inventory/shipment graph. All reads return
// copies; mutations go through per-key locks so concurrent tickets touching
// the same product or order serialize instead of losing updates.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*Product
	inventory map[string]*InventoryItem
	orders    map[string]*Order
	shipments map[string]*Shipment
	customers map[string]*Customer
	returns   map[string]*ReturnRequest

	keyMu   sync.Mutex
	keyLock map[string]*sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

type StoreOption func(*Store)

// WithClock fixes the store's notion of now. Tests use this together with
// WithRandSeed for deterministic restock/delivery estimates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRandSeed(seed int64) StoreOption {
	return func(s *Store) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// NewStore builds a store pre-loaded with the sample business records.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		keyLock: make(map[string]*sync.Mutex),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.load(seedData(s.now()))
	return s
}

func (s *Store) load(d *dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = d.products
	s.inventory = d.inventory
	s.orders = d.orders
	s.shipments = d.shipments
	s.customers = d.customers
	s.returns = d.returns
}

// lockKey returns the mutex serializing mutations for one entity key, e.g.
// "product:P1001" or "order:ORD12345".
func (s *Store) lockKey(key string) *sync.Mutex {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	mu, ok := s.keyLock[key]
	if !ok {
		mu = &sync.Mutex{}
		s.keyLock[key] = mu
	}
	return mu
}

func (s *Store) randInt(min, max int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return min + s.rng.Intn(max-min+1)
}

/* --------------------------------- reads -------------------------------- */

// GetOrder returns a snapshot of one order with product names resolved.
func (s *Store) GetOrder(orderID string) (*OrderInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	info := &OrderInfo{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		ShipmentID:  order.ShipmentID,
	}
	if cust, ok := s.customers[order.CustomerID]; ok {
		info.CustomerName = cust.Name
	} else {
		info.CustomerName = "Unknown"
	}

	for _, item := range order.Items {
		name := "Unknown Product"
		if p, ok := s.products[item.ProductID]; ok {
			name = p.Name
		}
		info.Items = append(info.Items, OrderItemInfo{
			ProductID:    item.ProductID,
			ProductName:  name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
			IsReturned:   item.IsReturned,
			ReturnReason: item.ReturnReason,
		})
	}
	return info, nil
}

// GetTrackingInfo returns a snapshot of the shipment attached to an order.
func (s *Store) GetTrackingInfo(orderID string) (*TrackingInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok || order.ShipmentID == "" {
		return nil, fmt.Errorf("%w: order %s", ErrNoTracking, orderID)
	}
	shipment, ok := s.shipments[order.ShipmentID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", ErrNoTracking, orderID)
	}

	info := &TrackingInfo{
		Carrier:           shipment.Carrier,
		TrackingNumber:    shipment.TrackingNumber,
		Status:            shipment.Status,
		EstimatedDelivery: shipment.EstimatedDelivery,
		History:           append([]TrackingEvent(nil), shipment.TrackingHistory...),
	}
	if shipment.ActualDelivery != nil {
		t := *shipment.ActualDelivery
		info.ActualDelivery = &t
	}
	return info, nil
}

// CheckStock returns the stock position for one product. When the quantity
// sits at or below the reorder threshold the estimate is a random date 1-14
// days out, matching warehouse lead times.
func (s *Store) CheckStock(productID string) (*StockInfo, error) {
	s.mu.RLock()
	product, ok := s.products[productID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	inv, hasInv := s.inventory[productID]
	info := &StockInfo{
		ProductID:   productID,
		ProductName: product.Name,
	}
	if hasInv {
		info.StockLevel = inv.Quantity
		info.Available = inv.Quantity > 0
		info.WarehouseID = inv.WarehouseID
		info.Location = inv.Location
	}
	var needsEstimate bool
	if hasInv {
		needsEstimate = inv.Quantity <= inv.ReorderThreshold
	}
	s.mu.RUnlock()

	if !hasInv {
		info.RestockExpected = "Unknown"
		return info, nil
	}
	if needsEstimate {
		days := s.randInt(1, 14)
		info.RestockExpected = s.now().AddDate(0, 0, days).Format("2006-01-02")
	}
	return info, nil
}

// ProductReference formats the product id -> name/price table handed to the
// reasoning oracle, which cannot query the store directly.
func (s *Store) ProductReference() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("Product ID Reference:\n")
	for _, id := range ids {
		p := s.products[id]
		fmt.Fprintf(&b, "- %s: %s ($%.2f)\n", id, p.Name, p.Price)
	}
	return b.String()
}

/* ------------------------------- mutations ------------------------------- */

// ProcessResend decrements stock by exactly one and creates a replacement
// shipment with a fresh tracking number and a 3-5 day delivery estimate.
func (s *Store) ProcessResend(orderID, productID string) (*ResendResult, error) {
	orderMu := s.lockKey("order:" + orderID)
	orderMu.Lock()
	defer orderMu.Unlock()
	productMu := s.lockKey("product:" + productID)
	productMu.Lock()
	defer productMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if !orderHasProduct(order, productID) {
		return nil, fmt.Errorf("%w: %s in %s", ErrProductNotInOrder, productID, orderID)
	}

	inv, ok := s.inventory[productID]
	if !ok || inv.Quantity <= 0 {
		oos := &OutOfStockError{ProductID: productID}
		if ok {
			oos.StockLevel = inv.Quantity
			if inv.Quantity <= inv.ReorderThreshold {
				days := s.randInt(1, 14)
				oos.RestockExpected = s.now().AddDate(0, 0, days).Format("2006-01-02")
			}
		}
		return nil, oos
	}

	now := s.now()
	shipmentID := "SH" + uuid.NewString()[:4]
	trackingNumber := "RS" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	eta := now.AddDate(0, 0, s.randInt(3, 5))

	s.shipments[shipmentID] = &Shipment{
		ID:                shipmentID,
		OrderID:           orderID,
		Carrier:           "FedEx",
		TrackingNumber:    trackingNumber,
		Status:            ShipmentProcessing,
		EstimatedDelivery: eta,
		TrackingHistory: []TrackingEvent{
			{
				Timestamp:   now,
				Location:    "Warehouse",
				Status:      ShipmentProcessing,
				Description: "Replacement order being processed",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	inv.Quantity--
	inv.UpdatedAt = now
	order.UpdatedAt = now

	return &ResendResult{
		ShipmentID:        shipmentID,
		OrderID:           orderID,
		ProductID:         productID,
		TrackingNumber:    trackingNumber,
		EstimatedDelivery: eta,
	}, nil
}

// ProcessReturn flips the order item's returned flag and files a pending
// return request for the item's total price.
func (s *Store) ProcessReturn(orderID, productID, reason string) (*ReturnResult, error) {
	orderMu := s.lockKey("order:" + orderID)
	orderMu.Lock()
	defer orderMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	var item *OrderItem
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrProductNotInOrder, productID, orderID)
	}
	if item.IsReturned {
		return nil, fmt.Errorf("%w: %s in %s", ErrAlreadyReturned, productID, orderID)
	}

	now := s.now()
	returnID := "RET" + uuid.NewString()[:4]

	item.IsReturned = true
	item.ReturnReason = reason
	order.UpdatedAt = now

	s.returns[returnID] = &ReturnRequest{
		ID:           returnID,
		OrderID:      orderID,
		Items:        []OrderItem{*item},
		Reason:       reason,
		Status:       "pending",
		RefundAmount: item.TotalPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return &ReturnResult{
		ReturnID:     returnID,
		OrderID:      orderID,
		ProductID:    productID,
		Status:       "pending",
		RefundAmount: item.TotalPrice,
	}, nil
}

// StockLevel reports the raw inventory quantity, mainly for tests and
// invariant checks.
func (s *Store) StockLevel(productID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventory[productID]
	if !ok {
		return 0, false
	}
	return inv.Quantity, true
}

// ReturnCount reports how many return requests exist for an order.
func (s *Store) ReturnCount(orderID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.returns {
		if r.OrderID == orderID {
			n++
		}
	}
	return n
}

func orderHasProduct(order *Order, productID string) bool {
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}
