package cart

import "testing"

func TestTotals(t *testing.T) {
	tests := []struct {
		name       string
		items      []CartItem
		wantAmount float64
		wantItems  int
	}{
		{"empty cart", nil, 0, 0},
		{
			"single line",
			[]CartItem{{ProductID: "p-1", Price: 12.5, Quantity: 2}},
			25, 2,
		},
		{
			"multiple lines",
			[]CartItem{
				{ProductID: "p-1", Price: 12.5, Quantity: 2},
				{ProductID: "p-2", Price: 4, Quantity: 3},
				{ProductID: "p-3", Price: 100, Quantity: 1},
			},
			137, 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalAmount(tt.items); got != tt.wantAmount {
				t.Errorf("TotalAmount = %v, want %v", got, tt.wantAmount)
			}
			if got := TotalItems(tt.items); got != tt.wantItems {
				t.Errorf("TotalItems = %v, want %v", got, tt.wantItems)
			}
		})
	}
}
