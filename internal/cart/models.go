package cart

// CartItem is a cart row denormalized with the product fields the client
// renders, so one fetch is enough to draw the cart.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type CartResponse struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	TotalItems  int        `json:"total_items"`
}

// TotalAmount is the sum over items of price times quantity.
func TotalAmount(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalItems is the sum of the item quantities.
func TotalItems(items []CartItem) int {
	var total int
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
