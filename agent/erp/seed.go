package erp

import "time"

// dataset is the fully-linked sample graph the store boots with.
type dataset struct {
	products  map[string]*Product
	inventory map[string]*InventoryItem
	orders    map[string]*Order
	shipments map[string]*Shipment
	customers map[string]*Customer
	returns   map[string]*ReturnRequest
}

func seedData(now time.Time) *dataset {
	products := map[string]*Product{
		"P1001": {
			ID:          "P1001",
			Name:        "Premium Wireless Headphones",
			Description: "Noise-cancelling over-ear wireless headphones with 30-hour battery life",
			Price:       199.99,
			Category:    CategoryElectronics,
			Weight:      0.25,
			Dimensions:  map[string]float64{"length": 18, "width": 15, "height": 8},
		},
		"P1002": {
			ID:          "P1002",
			Name:        "Smart Fitness Watch",
			Description: "Waterproof fitness tracker with heart rate monitor and GPS",
			Price:       149.99,
			Category:    CategoryElectronics,
			Weight:      0.05,
			Dimensions:  map[string]float64{"length": 4.5, "width": 3.8, "height": 1.2},
		},
		"P1003": {
			ID:          "P1003",
			Name:        "Organic Cotton T-Shirt",
			Description: "Soft, breathable 100% organic cotton t-shirt",
			Price:       29.99,
			Category:    CategoryClothing,
			Weight:      0.15,
			Dimensions:  map[string]float64{"length": 28, "width": 20, "height": 2},
		},
		"P1004": {
			ID:          "P1004",
			Name:        "Stainless Steel Water Bottle",
			Description: "Vacuum insulated water bottle that keeps drinks cold for 24 hours",
			Price:       34.99,
			Category:    CategoryHome,
			Weight:      0.35,
			Dimensions:  map[string]float64{"length": 27, "width": 7, "height": 7},
		},
		"P1005": {
			ID:          "P1005",
			Name:        "Wireless Charging Pad",
			Description: "Fast-charging wireless charger compatible with all Qi-enabled devices",
			Price:       39.99,
			Category:    CategoryElectronics,
			Weight:      0.1,
			Dimensions:  map[string]float64{"length": 10, "width": 10, "height": 1},
		},
		"P1006": {
			ID:          "P1006",
			Name:        "Premium Cotton Hoodie",
			Description: "Comfortable cotton hoodie with front pocket and adjustable hood",
			Price:       49.99,
			Category:    CategoryClothing,
			Weight:      0.4,
			Dimensions:  map[string]float64{"length": 30, "width": 25, "height": 3},
		},
	}
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
	}

	inventory := map[string]*InventoryItem{
		"P1001": {ProductID: "P1001", Quantity: 45, WarehouseID: "W001", Location: "A12-B3", LastRestockDate: now.AddDate(0, 0, -15), ReorderThreshold: 10, ReorderQuantity: 50},
		// Out of stock.
		"P1002": {ProductID: "P1002", Quantity: 0, WarehouseID: "W001", Location: "A14-C2", LastRestockDate: now.AddDate(0, 0, -30), ReorderThreshold: 5, ReorderQuantity: 25},
		"P1003": {ProductID: "P1003", Quantity: 120, WarehouseID: "W002", Location: "B22-D5", LastRestockDate: now.AddDate(0, 0, -7), ReorderThreshold: 20, ReorderQuantity: 100},
		"P1004": {ProductID: "P1004", Quantity: 78, WarehouseID: "W001", Location: "C05-A1", LastRestockDate: now.AddDate(0, 0, -21), ReorderThreshold: 15, ReorderQuantity: 50},
		// Low stock.
		"P1005": {ProductID: "P1005", Quantity: 3, WarehouseID: "W001", Location: "A10-D4", LastRestockDate: now.AddDate(0, 0, -25), ReorderThreshold: 10, ReorderQuantity: 30},
		// Out of stock.
		"P1006": {ProductID: "P1006", Quantity: 0, WarehouseID: "W002", Location: "B15-A3", LastRestockDate: now.AddDate(0, 0, -35), ReorderThreshold: 8, ReorderQuantity: 30},
	}
	for _, inv := range inventory {
		inv.CreatedAt = now
		inv.UpdatedAt = now
	}

	customers := map[string]*Customer{
		"C1001": {ID: "C1001", Name: "John Smith", Email: "john.smith@example.com", Phone: "555-123-4567", Address: map[string]string{"street": "123 Main St", "city": "Springfield", "state": "IL", "zip": "62704", "country": "USA"}},
		"C1002": {ID: "C1002", Name: "Emily Johnson", Email: "emily.johnson@example.com", Phone: "555-987-6543", Address: map[string]string{"street": "456 Oak Ave", "city": "Riverside", "state": "CA", "zip": "92501", "country": "USA"}},
		"C1003": {ID: "C1003", Name: "Michael Brown", Email: "michael.brown@example.com", Phone: "555-456-7890", Address: map[string]string{"street": "789 Pine Rd", "city": "Portland", "state": "OR", "zip": "97201", "country": "USA"}},
		"C1004": {ID: "C1004", Name: "Sarah Wilson", Email: "sarah.wilson@example.com", Phone: "555-789-1234", Address: map[string]string{"street": "321 Maple Dr", "city": "Boston", "state": "MA", "zip": "02108", "country": "USA"}},
	}
	for _, c := range customers {
		c.CreatedAt = now
		c.UpdatedAt = now
	}

	delivered30h := now.Add(-30 * time.Hour)
	delivered50h := now.Add(-50 * time.Hour)
	delivered3d := now.AddDate(0, 0, -3)

	shipments := map[string]*Shipment{
		"SH1001": {
			ID: "SH1001", OrderID: "ORD12345", Carrier: "FedEx", TrackingNumber: "FDX123456789",
			Status: ShipmentDelivered, EstimatedDelivery: now.AddDate(0, 0, -1), ActualDelivery: &delivered30h,
			TrackingHistory: trackingHistory(now, 5, ShipmentDelivered), CreatedAt: now.AddDate(0, 0, -6),
		},
		"SH1002": {
			ID: "SH1002", OrderID: "ORD67890", Carrier: "UPS", TrackingNumber: "UPS987654321",
			Status: ShipmentDelivered, EstimatedDelivery: now.AddDate(0, 0, -2), ActualDelivery: &delivered50h,
			TrackingHistory: trackingHistory(now, 4, ShipmentDelivered), CreatedAt: now.AddDate(0, 0, -5),
		},
		"SH1003": {
			ID: "SH1003", OrderID: "ORD54321", Carrier: "USPS", TrackingNumber: "USPS567891234",
			Status: ShipmentInTransit, EstimatedDelivery: now.AddDate(0, 0, 1),
			TrackingHistory: trackingHistory(now, 2, ShipmentInTransit), CreatedAt: now.AddDate(0, 0, -3),
		},
		"SH1004": {
			ID: "SH1004", OrderID: "ORD13579", Carrier: "DHL", TrackingNumber: "DHL246813579",
			Status: ShipmentOutForDelivery, EstimatedDelivery: now,
			TrackingHistory: trackingHistory(now, 3, ShipmentOutForDelivery), CreatedAt: now.AddDate(0, 0, -4),
		},
		"SH1005": {
			ID: "SH1005", OrderID: "ORD98765", Carrier: "FedEx", TrackingNumber: "FDX987654321",
			Status: ShipmentInTransit, EstimatedDelivery: now.AddDate(0, 0, 2),
			TrackingHistory: trackingHistory(now, 3, ShipmentInTransit), CreatedAt: now.AddDate(0, 0, -4),
		},
		"SH1006": {
			ID: "SH1006", OrderID: "ORD87654", Carrier: "UPS", TrackingNumber: "UPS567891234",
			Status: ShipmentFailed, EstimatedDelivery: now.AddDate(0, 0, -2),
			TrackingHistory: failedDeliveryHistory(now), CreatedAt: now.AddDate(0, 0, -5),
		},
		"SH1007": {
			ID: "SH1007", OrderID: "ORD76543", Carrier: "USPS", TrackingNumber: "USPS987654321",
			Status: ShipmentInTransit, EstimatedDelivery: now.AddDate(0, 0, 1),
			TrackingHistory: trackingHistory(now, 2, ShipmentInTransit), CreatedAt: now.AddDate(0, 0, -3),
		},
		"SH1008": {
			ID: "SH1008", OrderID: "ORD24680", Carrier: "UPS", TrackingNumber: "UPS135792468",
			Status: ShipmentDelivered, EstimatedDelivery: now.AddDate(0, 0, -3), ActualDelivery: &delivered3d,
			TrackingHistory: trackingHistory(now, 6, ShipmentDelivered), CreatedAt: now.AddDate(0, 0, -7),
		},
	}
	for _, sh := range shipments {
		sh.UpdatedAt = now
	}

	orders := map[string]*Order{
		"ORD12345": order(now, "ORD12345", "C1001", OrderDelivered, "SH1001", -6,
			item(products, "P1001", 1), item(products, "P1004", 2)),
		"ORD67890": order(now, "ORD67890", "C1002", OrderDelivered, "SH1002", -5,
			item(products, "P1002", 1)),
		"ORD54321": order(now, "ORD54321", "C1003", OrderShipped, "SH1003", -3,
			item(products, "P1003", 3), item(products, "P1005", 1)),
		"ORD13579": order(now, "ORD13579", "C1001", OrderShipped, "SH1004", -4,
			item(products, "P1005", 2)),
		"ORD98765": order(now, "ORD98765", "C1001", OrderShipped, "SH1005", -4,
			item(products, "P1001", 1)),
		"ORD87654": order(now, "ORD87654", "C1002", OrderShipped, "SH1006", -5,
			item(products, "P1004", 1)),
		"ORD76543": order(now, "ORD76543", "C1003", OrderShipped, "SH1007", -3,
			item(products, "P1002", 1)),
		"ORD24680": order(now, "ORD24680", "C1004", OrderDelivered, "SH1008", -7,
			item(products, "P1006", 1)),
	}

	returnedItem := item(products, "P1001", 1)
	returnedItem.IsReturned = true
	returnedItem.ReturnReason = "Defective product"
	returns := map[string]*ReturnRequest{
		"RET1001": {
			ID:           "RET1001",
			OrderID:      "ORD12345",
			Items:        []OrderItem{returnedItem},
			Reason:       "Headphones not working properly",
			Status:       "approved",
			RefundAmount: products["P1001"].Price,
			CreatedAt:    now.AddDate(0, 0, -1),
			UpdatedAt:    now.AddDate(0, 0, -1),
		},
	}

	return &dataset{
		products:  products,
		inventory: inventory,
		orders:    orders,
		shipments: shipments,
		customers: customers,
		returns:   returns,
	}
}

func item(products map[string]*Product, productID string, quantity int) OrderItem {
	price := products[productID].Price
	return OrderItem{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  price,
		TotalPrice: price * float64(quantity),
	}
}

func order(now time.Time, id, customerID string, status OrderStatus, shipmentID string, daysAgo int, items ...OrderItem) *Order {
	total := 0.0
	for _, it := range items {
		total += it.TotalPrice
	}
	return &Order{
		ID:          id,
		CustomerID:  customerID,
		Status:      status,
		Items:       items,
		TotalAmount: total,
		ShipmentID:  shipmentID,
		CreatedAt:   now.AddDate(0, 0, daysAgo),
		UpdatedAt:   now.AddDate(0, 0, daysAgo),
	}
}

// trackingHistory synthesizes a plausible event trail for a shipment that
// left the warehouse daysAgo days ago and currently has the given status.
func trackingHistory(now time.Time, daysAgo int, status ShipmentStatus) []TrackingEvent {
	start := now.AddDate(0, 0, -daysAgo)
	history := []TrackingEvent{
		{Timestamp: start, Location: "Warehouse #1, Springfield, IL", Status: ShipmentProcessing, Description: "Package processed at shipping facility"},
	}
	if daysAgo > 1 {
		history = append(history, TrackingEvent{Timestamp: start.Add(12 * time.Hour), Location: "Springfield Distribution Center, IL", Status: ShipmentInTransit, Description: "Package in transit to next facility"})
	}
	if daysAgo > 2 {
		history = append(history, TrackingEvent{Timestamp: start.AddDate(0, 0, 1), Location: "Chicago Sorting Center, IL", Status: ShipmentInTransit, Description: "Package arrived at sorting facility"})
	}
	if daysAgo > 3 {
		history = append(history, TrackingEvent{Timestamp: start.AddDate(0, 0, 1).Add(12 * time.Hour), Location: "Regional Distribution Center", Status: ShipmentInTransit, Description: "Package in transit to destination"})
	}

	switch status {
	case ShipmentDelivered:
		if daysAgo > 1 {
			history = append(history, TrackingEvent{Timestamp: now.AddDate(0, 0, -1), Location: "Local Delivery Facility", Status: ShipmentOutForDelivery, Description: "Package out for delivery"})
		}
		history = append(history, TrackingEvent{Timestamp: now.Add(-3 * time.Hour), Location: "Destination", Status: ShipmentDelivered, Description: "Package delivered"})
	case ShipmentOutForDelivery:
		if daysAgo > 1 {
			history = append(history, TrackingEvent{Timestamp: now.Add(-8 * time.Hour), Location: "Local Delivery Facility", Status: ShipmentOutForDelivery, Description: "Package out for delivery"})
		}
	case ShipmentFailed:
		history = append(history, TrackingEvent{Timestamp: now.AddDate(0, 0, -1), Location: "Destination", Status: ShipmentFailed, Description: "Delivery attempt failed: No one available to receive package"})
	}
	return history
}

// failedDeliveryHistory is the two-failed-attempts trail for SH1006.
func failedDeliveryHistory(now time.Time) []TrackingEvent {
	start := now.AddDate(0, 0, -5)
	return []TrackingEvent{
		{Timestamp: start, Location: "Warehouse #1, Springfield, IL", Status: ShipmentProcessing, Description: "Package processed at shipping facility"},
		{Timestamp: start.Add(12 * time.Hour), Location: "Springfield Distribution Center, IL", Status: ShipmentInTransit, Description: "Package in transit to next facility"},
		{Timestamp: start.AddDate(0, 0, 1), Location: "Chicago Sorting Center, IL", Status: ShipmentInTransit, Description: "Package arrived at sorting facility"},
		{Timestamp: start.AddDate(0, 0, 2), Location: "Regional Distribution Center", Status: ShipmentInTransit, Description: "Package in transit to destination"},
		{Timestamp: start.AddDate(0, 0, 3), Location: "Destination", Status: ShipmentFailed, Description: "Delivery attempt failed: No one available to receive package"},
		{Timestamp: start.AddDate(0, 0, 4), Location: "Destination", Status: ShipmentFailed, Description: "Delivery attempt failed: No one available to receive package. Package will be returned to sender."},
	}
}
