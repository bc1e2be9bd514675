package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInsufficientStockError_MatchesSentinel(t *testing.T) {
	err := &InsufficientStockError{
		Shortages: []StockShortage{
			{ProductID: "p-1", Requested: 3, Available: 1},
		},
	}

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected errors.Is to match ErrInsufficientStock")
	}

	wrapped := fmt.Errorf("commit checkout: %w", err)
	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatal("wrapped error must still match the sentinel")
	}

	var typed *InsufficientStockError
	if !errors.As(wrapped, &typed) {
		t.Fatal("expected errors.As to extract the typed error")
	}
	if len(typed.Shortages) != 1 || typed.Shortages[0].ProductID != "p-1" {
		t.Fatalf("unexpected shortages: %+v", typed.Shortages)
	}
}

func TestInsufficientStockError_MessageListsAllShortages(t *testing.T) {
	err := &InsufficientStockError{
		Shortages: []StockShortage{
			{ProductID: "p-1", Requested: 3, Available: 1},
			{ProductID: "p-2", Requested: 5, Available: 0},
		},
	}

	msg := err.Error()
	for _, want := range []string{"p-1", "requested 3", "available 1", "p-2", "requested 5", "available 0"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q must contain %q", msg, want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(ErrOrderNumberTaken) {
		t.Fatal("order number collision must be retryable")
	}
	if !IsRetryable(fmt.Errorf("insert order: %w", ErrOrderNumberTaken)) {
		t.Fatal("wrapped collision must be retryable")
	}
	if IsRetryable(ErrInsufficientStock) {
		t.Fatal("stock shortage must not be retryable")
	}
	if IsRetryable(nil) {
		t.Fatal("nil must not be retryable")
	}
}
