package orders

import (
	"errors"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		wantErr bool
	}{
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to canceled", StatusPending, StatusCanceled, false},
		{"same status pending", StatusPending, StatusPending, false},
		{"same status completed", StatusCompleted, StatusCompleted, false},
		{"same status canceled", StatusCanceled, StatusCanceled, false},
		{"completed to canceled", StatusCompleted, StatusCanceled, true},
		{"canceled to completed", StatusCanceled, StatusCompleted, true},
		{"completed back to pending", StatusCompleted, StatusPending, true},
		{"canceled back to pending", StatusCanceled, StatusPending, true},
		{"unknown target status", StatusPending, "shipped", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.next)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("got %v, want ErrInvalidTransition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("got %v, want nil", err)
			}
		})
	}
}
