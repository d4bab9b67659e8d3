// internal/domain/order/listener_port.go
package order

import "context"

// PlacedListener is told about an order after it was placed and mirrored into the
// shopper session. A failing listener never undoes the order.
type PlacedListener interface {
	OrderPlaced(ctx context.Context, o *Order, buyerEmail string) error
}
