package memory

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestCartRepositoryUpsert_IncrementsExistingLine(t *testing.T) {
	store := NewStore()
	seedCategory(t, store, "cat-1", "Обувь")
	seedProduct(t, store, "p-1", "cat-1", 1000, 10)
	repo := NewCartRepository(store)

	first, err := repo.Upsert(domain.CartLine{UserID: "user-1", ProductID: "p-1", Qty: 2})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.ID == "" {
		t.Fatal("upsert must assign line id")
	}
	if first.Qty != 2 {
		t.Fatalf("qty = %d, want 2", first.Qty)
	}

	second, err := repo.Upsert(domain.CartLine{UserID: "user-1", ProductID: "p-1", Qty: 3})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert created new line %s, want %s", second.ID, first.ID)
	}
	if second.Qty != 5 {
		t.Errorf("qty = %d, want 5 after increment", second.Qty)
	}
	if got := cartLineCount(t, store, "user-1"); got != 1 {
		t.Errorf("lines = %d, want 1", got)
	}
}

func TestCartRepositoryUpdateQty(t *testing.T) {
	store := NewStore()
	repo := NewCartRepository(store)

	if err := repo.UpdateQty("user-1", "p-1", 4); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("err = %v, want ErrCartLineNotFound", err)
	}

	seedCartLine(t, store, "user-1", "p-1", 1)
	if err := repo.UpdateQty("user-1", "p-1", 4); err != nil {
		t.Fatalf("update qty: %v", err)
	}

	seedCategory(t, store, "cat-1", "Обувь")
	seedProduct(t, store, "p-1", "cat-1", 1000, 10)
	lines, err := repo.ListWithProducts("user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 || lines[0].Line.Qty != 4 {
		t.Fatalf("lines = %+v, want single line with qty 4", lines)
	}
}

func TestCartRepositoryRemove(t *testing.T) {
	store := NewStore()
	seedCartLine(t, store, "user-1", "p-1", 1)
	repo := NewCartRepository(store)

	if err := repo.Remove("user-1", "p-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.Remove("user-1", "p-1"); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("repeated remove err = %v, want ErrCartLineNotFound", err)
	}
}

func TestCartRepositoryListWithProducts_ScopedAndOrdered(t *testing.T) {
	store := NewStore()
	seedCategory(t, store, "cat-1", "Обувь")
	seedProduct(t, store, "p-1", "cat-1", 1000, 10)
	seedProduct(t, store, "p-2", "cat-1", 2000, 10)
	repo := NewCartRepository(store)

	if _, err := repo.Upsert(domain.CartLine{UserID: "user-1", ProductID: "p-1", Qty: 1}); err != nil {
		t.Fatalf("upsert p-1: %v", err)
	}
	if _, err := repo.Upsert(domain.CartLine{UserID: "user-1", ProductID: "p-2", Qty: 2}); err != nil {
		t.Fatalf("upsert p-2: %v", err)
	}
	if _, err := repo.Upsert(domain.CartLine{UserID: "user-2", ProductID: "p-1", Qty: 5}); err != nil {
		t.Fatalf("upsert for user-2: %v", err)
	}

	lines, err := repo.ListWithProducts("user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for _, view := range lines {
		if view.Line.UserID != "user-1" {
			t.Errorf("line %s belongs to %s, want user-1", view.Line.ID, view.Line.UserID)
		}
		if view.Product.ID != view.Line.ProductID {
			t.Errorf("line %s joined with product %s", view.Line.ProductID, view.Product.ID)
		}
	}
}

func TestCartRepositoryClear_OnlyOwner(t *testing.T) {
	store := NewStore()
	seedCartLine(t, store, "user-1", "p-1", 1)
	seedCartLine(t, store, "user-1", "p-2", 2)
	seedCartLine(t, store, "user-2", "p-1", 3)

	if err := NewCartRepository(store).Clear("user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := cartLineCount(t, store, "user-1"); got != 0 {
		t.Errorf("user-1 lines = %d, want 0", got)
	}
	if got := cartLineCount(t, store, "user-2"); got != 1 {
		t.Errorf("user-2 lines = %d, want 1", got)
	}
}
