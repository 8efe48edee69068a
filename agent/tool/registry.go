package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	erpx "github.com/tanpawarit/erp-support-agent/agent/erp"
)

const (
	ToolCheckOrderStatus = "check_order_status"
	ToolTrackOrder       = "track_order"
	ToolCheckStock       = "check_stock"
	ToolInitializeResend = "initialize_resend"
	ToolInitializeRefund = "initialize_refund"
)

const errorPrefix = "Error:"

// refundReason is attached to order items returned through the refund tool.
const refundReason = "Customer service approved refund"

// Info describes one tool to the reasoning oracle.
type Info struct {
	Name        string
	Description string
}

// IsError reports whether a tool result is a failed step. Errors travel as
// text so the resolver loop can feed them back to the oracle and continue.
func IsError(result string) bool {
	return strings.HasPrefix(result, errorPrefix)
}

// Registry wraps the business-record store with the five fixed operations.
// Every operation takes one string argument and returns human-readable text;
// failures are "Error:"-prefixed strings, never Go errors.
type Registry struct {
	store *erpx.Store
}

func NewRegistry(store *erpx.Store) *Registry {
	return &Registry{store: store}
}

func (r *Registry) Names() []string {
	return []string{
		ToolCheckOrderStatus,
		ToolTrackOrder,
		ToolCheckStock,
		ToolInitializeResend,
		ToolInitializeRefund,
	}
}

// Infos returns the descriptions handed to the oracle in the task brief.
func (r *Registry) Infos() []Info {
	return []Info{
		{Name: ToolCheckOrderStatus, Description: "Check order status by order ID. Example: ORD12345"},
		{Name: ToolTrackOrder, Description: "Track shipment by order ID. Example: ORD12345"},
		{Name: ToolCheckStock, Description: "Check item stock availability by product ID. Example: P1001"},
		{Name: ToolInitializeResend, Description: "Resend item to customer. Format: 'ORD12345/P1001' where ORD12345 is the order ID and P1001 is the product ID."},
		{Name: ToolInitializeRefund, Description: "Refund customer for order. Format: 'ORD12345/P1001' where ORD12345 is the order ID and P1001 is the product ID."},
	}
}

// Invoke dispatches one tool call. A comma-separated input fans out to one
// call per element with the results concatenated in order.
func (r *Registry) Invoke(ctx context.Context, tool string, input string) string {
	inputs := strings.Split(input, ",")
	if len(inputs) == 1 {
		return r.invokeOne(ctx, tool, strings.TrimSpace(input))
	}

	results := make([]string, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, r.invokeOne(ctx, tool, strings.TrimSpace(in)))
	}
	return strings.Join(results, "\n\n")
}

func (r *Registry) invokeOne(ctx context.Context, tool string, input string) string {
	if err := ctx.Err(); err != nil {
		return fmt.Sprintf("%s tool call cancelled: %v", errorPrefix, err)
	}

	switch tool {
	case ToolCheckOrderStatus:
		return r.checkOrderStatus(input)
	case ToolTrackOrder:
		return r.trackOrder(input)
	case ToolCheckStock:
		return r.checkStock(input)
	case ToolInitializeResend:
		return r.initializeResend(input)
	case ToolInitializeRefund:
		return r.initializeRefund(input)
	default:
		return fmt.Sprintf("%s unknown tool %q", errorPrefix, tool)
	}
}

func (r *Registry) checkOrderStatus(orderID string) string {
	info, err := r.store.GetOrder(orderID)
	if err != nil {
		return fmt.Sprintf("Order %s not found in the system.", orderID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order %s Status: %s\n", orderID, strings.ToUpper(string(info.Status)))
	fmt.Fprintf(&b, "Ordered on: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Customer: %s\n\n", info.CustomerName)

	b.WriteString("Items:\n")
	for _, item := range info.Items {
		returned := ""
		if item.IsReturned {
			returned = " (RETURNED)"
		}
		fmt.Fprintf(&b, "- %s x%d - $%.2f%s\n", item.ProductName, item.Quantity, item.TotalPrice, returned)
	}

	fmt.Fprintf(&b, "\nTotal amount: $%.2f", info.TotalAmount)
	return b.String()
}

func (r *Registry) trackOrder(orderID string) string {
	info, err := r.store.GetTrackingInfo(orderID)
	if err != nil {
		return fmt.Sprintf("No tracking information found for order %s.", orderID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tracking for Order %s:\n", orderID)
	fmt.Fprintf(&b, "Carrier: %s\n", info.Carrier)
	fmt.Fprintf(&b, "Tracking Number: %s\n", info.TrackingNumber)
	fmt.Fprintf(&b, "Current Status: %s\n", strings.ToUpper(string(info.Status)))
	fmt.Fprintf(&b, "Estimated Delivery: %s\n", info.EstimatedDelivery.Format("2006-01-02"))
	if info.ActualDelivery != nil {
		fmt.Fprintf(&b, "Delivered on: %s\n", info.ActualDelivery.Format("2006-01-02"))
	}

	b.WriteString("\nTracking History:\n")
	for _, event := range info.History {
		fmt.Fprintf(&b, "- %s: %s - %s (%s)\n",
			event.Timestamp.Format("2006-01-02 15:04:05"), event.Status, event.Description, event.Location)
	}
	return b.String()
}

func (r *Registry) checkStock(productID string) string {
	info, err := r.store.CheckStock(productID)
	if err != nil {
		return fmt.Sprintf("%s %v", errorPrefix, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (ID: %s)\n", info.ProductName, info.ProductID)
	fmt.Fprintf(&b, "Stock Level: %d units\n", info.StockLevel)
	if info.Available {
		b.WriteString("Status: IN STOCK\n")
	} else {
		b.WriteString("Status: OUT OF STOCK\n")
	}

	if info.WarehouseID != "" {
		fmt.Fprintf(&b, "Warehouse: %s\n", info.WarehouseID)
		fmt.Fprintf(&b, "Location: %s\n", info.Location)
	}
	if !info.Available && info.RestockExpected != "" {
		fmt.Fprintf(&b, "Restock Expected: %s", info.RestockExpected)
	}
	return b.String()
}

// splitOrderProduct unpacks "ORD12345/P1001". Without the separator, the
// order's first item is the target.
func (r *Registry) splitOrderProduct(input string) (orderID, productID string, errText string) {
	if idx := strings.IndexByte(input, '/'); idx >= 0 {
		return strings.TrimSpace(input[:idx]), strings.TrimSpace(input[idx+1:]), ""
	}

	info, err := r.store.GetOrder(input)
	if err != nil || len(info.Items) == 0 {
		return "", "", fmt.Sprintf("order %s not found or has no items", input)
	}
	return input, info.Items[0].ProductID, ""
}

func (r *Registry) initializeResend(input string) string {
	orderID, productID, errText := r.splitOrderProduct(input)
	if errText != "" {
		return fmt.Sprintf("%s Cannot process resend: %s.", errorPrefix, errText)
	}

	result, err := r.store.ProcessResend(orderID, productID)
	if err != nil {
		var oos *erpx.OutOfStockError
		if errors.As(err, &oos) {
			restock := oos.RestockExpected
			if restock == "" {
				restock = "unknown"
			}
			return fmt.Sprintf("%s Cannot resend product. Product out of stock. Current stock: %d. Restock expected: %s",
				errorPrefix, oos.StockLevel, restock)
		}
		return fmt.Sprintf("%s %v", errorPrefix, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resend initiated for order %s, product %s\n", orderID, productID)
	fmt.Fprintf(&b, "New shipment ID: %s\n", result.ShipmentID)
	fmt.Fprintf(&b, "Tracking number: %s\n", result.TrackingNumber)
	fmt.Fprintf(&b, "Estimated delivery: %s", result.EstimatedDelivery.Format("2006-01-02"))
	return b.String()
}

func (r *Registry) initializeRefund(input string) string {
	orderID, productID, errText := r.splitOrderProduct(input)
	if errText != "" {
		return fmt.Sprintf("%s Cannot process refund: %s.", errorPrefix, errText)
	}

	result, err := r.store.ProcessReturn(orderID, productID, refundReason)
	if err != nil {
		return fmt.Sprintf("%s %v", errorPrefix, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Refund initiated for order %s, product %s\n", orderID, productID)
	fmt.Fprintf(&b, "Return ID: %s\n", result.ReturnID)
	fmt.Fprintf(&b, "Status: %s\n", result.Status)
	fmt.Fprintf(&b, "Refund amount: $%.2f", result.RefundAmount)
	return b.String()
}
